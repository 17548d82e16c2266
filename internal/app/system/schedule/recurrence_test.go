package schedule_test

import (
	"testing"

	"github.com/bammbuu/bammbuu-server/internal/app/system/schedule"
)

func TestParseRecurrence(t *testing.T) {
	cases := []struct {
		raw  string
		want schedule.Recurrence
	}{
		{"weekly", schedule.RecurrenceWeekly},
		{"Weekly", schedule.RecurrenceWeekly},
		{" WEEKLY ", schedule.RecurrenceWeekly},
		{"daily", schedule.RecurrenceDaily},
		{"daily_weekdays", schedule.RecurrenceDailyWeekdays},
		{"Daily (Weekdays)", schedule.RecurrenceDailyWeekdays},
		{"monthly", schedule.RecurrenceMonthly},
		{"one_time", schedule.RecurrenceOneTime},
		{"One-Time", schedule.RecurrenceOneTime},
		{"once", schedule.RecurrenceOneTime},
		{"", schedule.RecurrenceNone},
		{"none", schedule.RecurrenceNone},
		{"garbage", schedule.RecurrenceNone},
	}
	for _, tc := range cases {
		if got := schedule.ParseRecurrence(tc.raw); got != tc.want {
			t.Errorf("ParseRecurrence(%q): got %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestRecurrence_Repeating(t *testing.T) {
	repeating := []schedule.Recurrence{
		schedule.RecurrenceDaily,
		schedule.RecurrenceDailyWeekdays,
		schedule.RecurrenceWeekly,
		schedule.RecurrenceMonthly,
	}
	for _, r := range repeating {
		if !r.Repeating() {
			t.Errorf("%v should be repeating", r)
		}
	}
	if schedule.RecurrenceNone.Repeating() || schedule.RecurrenceOneTime.Repeating() {
		t.Error("none/one_time should not be repeating")
	}
}
