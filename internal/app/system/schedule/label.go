package schedule

import "time"

// LabelKind says what a class card should print for its date line.
type LabelKind int

const (
	// LabelTBD means no timestamp could be resolved; the caller renders its
	// localized "to be determined" string.
	LabelTBD LabelKind = iota
	// LabelWeekday means the card shows a weekday name. Repeating classes get
	// weekday labels because their specific calendar date is not meaningful.
	LabelWeekday
	// LabelDate means the card shows a short localized date.
	LabelDate
)

// Label is the semantic display label for a class card. The engine returns
// values, never formatted strings; the presentation layer localizes.
type Label struct {
	Kind    LabelKind
	Weekday time.Weekday
	Date    time.Time
}

// DisplayLabel computes the card label for a class.
//
// Repeating classes label with the weekday of their next occurrence, falling
// back to the scheduled time's weekday when all slots are exhausted.
// Non-repeating classes label with the scheduled date. Anything unresolvable
// is TBD.
func DisplayLabel(c Class, now time.Time) Label {
	if c.Recurrence.Repeating() {
		if next, ok := NextOccurrence(c, now); ok {
			return Label{Kind: LabelWeekday, Weekday: next.Weekday()}
		}
		if !c.ScheduledAt.IsZero() {
			return Label{Kind: LabelWeekday, Weekday: c.ScheduledAt.Weekday()}
		}
		return Label{Kind: LabelTBD}
	}
	if c.ScheduledAt.IsZero() {
		return Label{Kind: LabelTBD}
	}
	return Label{Kind: LabelDate, Date: c.ScheduledAt}
}
