// Package schedule is the date/recurrence bucketing engine behind the
// calendar and class-card views.
//
// Everything in this package is a pure computation over plain values: callers
// supply the reference time explicitly and the package never reads the system
// clock, touches the database, or returns an error. Bad display data (missing
// timestamps, malformed recurrence values) degrades to documented defaults so
// the dashboard always has something to render.
package schedule

import "strings"

// Recurrence is the normalized repetition kind of a class.
type Recurrence int

const (
	// RecurrenceNone is the default for absent or malformed values.
	RecurrenceNone Recurrence = iota
	RecurrenceOneTime
	RecurrenceDaily
	RecurrenceDailyWeekdays
	RecurrenceWeekly
	RecurrenceMonthly
)

var recurrenceNames = map[Recurrence]string{
	RecurrenceNone:          "none",
	RecurrenceOneTime:       "one_time",
	RecurrenceDaily:         "daily",
	RecurrenceDailyWeekdays: "daily_weekdays",
	RecurrenceWeekly:        "weekly",
	RecurrenceMonthly:       "monthly",
}

func (r Recurrence) String() string {
	if s, ok := recurrenceNames[r]; ok {
		return s
	}
	return "none"
}

// Repeating reports whether classes of this kind produce more than one
// occurrence. None and OneTime classes are placed by their scheduled time
// alone; repeating classes are placed by their precomputed slots.
func (r Recurrence) Repeating() bool {
	return r >= RecurrenceDaily
}

// ParseRecurrence normalizes the stored recurrence value. Legacy documents
// carry either a bare string or a one-element list, with a few spelling
// variants; anything unrecognized collapses to RecurrenceNone.
func ParseRecurrence(raw string) Recurrence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "one_time", "one-time", "onetime", "once":
		return RecurrenceOneTime
	case "daily":
		return RecurrenceDaily
	case "daily_weekdays", "daily (weekdays)", "weekdays":
		return RecurrenceDailyWeekdays
	case "weekly":
		return RecurrenceWeekly
	case "monthly":
		return RecurrenceMonthly
	default:
		return RecurrenceNone
	}
}
