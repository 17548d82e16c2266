package schedule

import "time"

// Granularity selects the visible calendar window size.
type Granularity int

const (
	Week Granularity = iota
	Month
)

// WeekAnchor selects how the first day of a week window is derived from the
// reference date. The legacy dashboard computed the anchor as
// dayOfMonth - weekdayIndex + 1 with a Sunday-based weekday index, which lands
// on the following Monday when the reference date is itself a Sunday. Whether
// that was intended was never settled, so both behaviors are available and
// pinned by tests.
type WeekAnchor int

const (
	// AnchorISOMonday places a Sunday in the week of the preceding Monday.
	AnchorISOMonday WeekAnchor = iota
	// AnchorLegacy reproduces the historical arithmetic bit for bit: a Sunday
	// reference anchors on the next day, seven days after the ISO anchor.
	AnchorLegacy
)

// Day is one cell of a calendar window. Date is midnight in the reference
// date's location. InMonth is only meaningful for month windows.
type Day struct {
	Date    time.Time
	InMonth bool
}

// WindowOptions configures WindowDays. DisplayCount is the number of days in
// a week window; the historical UI varied it with viewport width (7, 9, 11 or
// 14), so it is an explicit caller decision here. Month windows ignore it.
type WindowOptions struct {
	Granularity  Granularity
	DisplayCount int
	Anchor       WeekAnchor
}

const monthGridCells = 42 // 6 rows x 7 columns, Sunday-first

// WindowDays computes the ordered calendar days visible around ref.
//
// Week windows are DisplayCount consecutive days starting at the Monday
// anchor. Month windows are always 42 cells covering the full month of ref,
// padded with the surrounding months so the grid starts on a Sunday; each cell
// is tagged with whether it belongs to ref's month. The result is fully
// materialized and deterministic for a given input.
func WindowDays(ref time.Time, opts WindowOptions) []Day {
	if opts.Granularity == Month {
		return monthGrid(ref)
	}

	count := opts.DisplayCount
	if count < 1 {
		count = 7
	}

	anchor := weekStart(ref, opts.Anchor)
	days := make([]Day, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, Day{Date: anchor.AddDate(0, 0, i), InMonth: true})
	}
	return days
}

func weekStart(ref time.Time, anchor WeekAnchor) time.Time {
	y, m, d := ref.Date()
	switch anchor {
	case AnchorLegacy:
		// dayOfMonth - sundayBasedWeekday + 1; time.Date normalizes
		// out-of-range days across month and year boundaries.
		first := d - int(ref.Weekday()) + 1
		return time.Date(y, m, first, 0, 0, 0, 0, ref.Location())
	default:
		offset := (int(ref.Weekday()) + 6) % 7 // days since Monday
		return time.Date(y, m, d-offset, 0, 0, 0, 0, ref.Location())
	}
}

func monthGrid(ref time.Time) []Day {
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))

	days := make([]Day, 0, monthGridCells)
	for i := 0; i < monthGridCells; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:    date,
			InMonth: date.Month() == ref.Month() && date.Year() == ref.Year(),
		})
	}
	return days
}
