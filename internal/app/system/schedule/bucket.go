package schedule

import "time"

// Slot is one precomputed future occurrence of a repeating class.
type Slot struct {
	At time.Time
}

// Class is the normalized view of a class record that the engine works on.
// The shape quirks of stored documents (recurrence as string vs list, slot
// timestamps nested vs bare) are resolved before a Class is built, so nothing
// here branches on shape. A zero ScheduledAt means the class is unscheduled
// ("TBD").
type Class struct {
	ID          string
	ScheduledAt time.Time
	Duration    time.Duration
	Recurrence  Recurrence
	Slots       []Slot
}

// AuthoritativeStart resolves the single timestamp that decides a class's
// calendar placement.
//
// Non-repeating classes are placed by ScheduledAt. Repeating classes are
// placed by the earliest slot falling on day when one exists, otherwise by
// ScheduledAt. A zero day skips the per-day slot match and goes straight to
// the fallback. Returns false when no timestamp is resolvable.
func AuthoritativeStart(c Class, day time.Time) (time.Time, bool) {
	if !c.Recurrence.Repeating() {
		return c.ScheduledAt, !c.ScheduledAt.IsZero()
	}
	if !day.IsZero() {
		start, end := dayBounds(day)
		for _, s := range c.Slots {
			if s.At.IsZero() {
				continue
			}
			if !s.At.Before(start) && !s.At.After(end) {
				return s.At, true
			}
		}
	}
	return c.ScheduledAt, !c.ScheduledAt.IsZero()
}

// ClassesOnDay filters classes to those whose authoritative timestamp falls
// within day, bounds inclusive. Input order is preserved; classes with no
// resolvable timestamp are excluded.
func ClassesOnDay(classes []Class, day time.Time) []Class {
	start, end := dayBounds(day)
	var out []Class
	for _, c := range classes {
		at, ok := AuthoritativeStart(c, day)
		if !ok {
			continue
		}
		if !at.Before(start) && !at.After(end) {
			out = append(out, c)
		}
	}
	return out
}

// NextOccurrence returns the next occurrence of a class to show on its card.
//
// Non-repeating classes return ScheduledAt (ok=false when unscheduled).
// Repeating classes return the first slot strictly after now; when every slot
// is in the past ok is false and callers fall back to ScheduledAt for
// display, matching the legacy cards.
func NextOccurrence(c Class, now time.Time) (time.Time, bool) {
	if !c.Recurrence.Repeating() {
		return c.ScheduledAt, !c.ScheduledAt.IsZero()
	}
	for _, s := range c.Slots {
		if !s.At.IsZero() && s.At.After(now) {
			return s.At, true
		}
	}
	return time.Time{}, false
}

// IsOngoing reports whether now falls within the class's running window,
// [start, start+Duration] inclusive, using the same authoritative-timestamp
// resolution as ClassesOnDay for the day containing now.
func IsOngoing(c Class, now time.Time) bool {
	start, ok := AuthoritativeStart(c, now)
	if !ok {
		return false
	}
	return !now.Before(start) && !now.After(start.Add(c.Duration))
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
