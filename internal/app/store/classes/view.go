// internal/app/store/classes/view.go
package classstore

import (
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/system/schedule"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
)

// ScheduleView converts a stored class document into the engine's normalized
// form. This is the single place the legacy shape quirks are resolved for the
// calendar and card logic; nothing downstream branches on document shape.
func ScheduleView(c models.Class) schedule.Class {
	sc := schedule.Class{
		ID:         c.ID.Hex(),
		Duration:   time.Duration(c.DurationMinutes) * time.Minute,
		Recurrence: schedule.ParseRecurrence(string(c.Recurrence)),
	}
	if c.ScheduledAt != nil {
		sc.ScheduledAt = *c.ScheduledAt
	}
	for _, s := range c.RecurringSlots {
		if s.At.IsZero() {
			continue
		}
		sc.Slots = append(sc.Slots, schedule.Slot{At: s.At})
	}
	return sc
}
