// internal/app/features/calendar/handler.go
package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	"github.com/bammbuu/bammbuu-server/internal/app/system/schedule"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the calendar surfaces: the day strip/grid the mobile and
// web clients render, and the per-day class list behind it.
type Handler struct {
	Classes *classstore.Store
	Log     *zap.Logger
}

func NewHandler(classes *classstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Classes: classes, Log: logger}
}

// maxDisplayCount bounds the week strip so a client cannot request an
// arbitrarily wide window.
const maxDisplayCount = 14

type dayPayload struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Weekday string `json:"weekday"`
	InMonth bool   `json:"in_month"`
}

// ServeDays handles GET /api/calendar/days?date=&view=&days=&anchor=.
//
// view is "week" (default) or "month"; days widens the week strip up to 14;
// anchor selects the week-start convention ("iso" default, "legacy" for the
// convention older clients were built against).
func (h *Handler) ServeDays(w http.ResponseWriter, r *http.Request) {
	ref := parseDate(r.URL.Query().Get("date"), time.Now().UTC())

	opts := schedule.WindowOptions{Granularity: schedule.Week}
	if r.URL.Query().Get("view") == "month" {
		opts.Granularity = schedule.Month
	}
	if r.URL.Query().Get("anchor") == "legacy" {
		opts.Anchor = schedule.AnchorLegacy
	}
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxDisplayCount {
			http.Error(w, "days must be between 1 and 14", http.StatusBadRequest)
			return
		}
		opts.DisplayCount = n
	}

	days := schedule.WindowDays(ref, opts)
	out := make([]dayPayload, 0, len(days))
	for _, d := range days {
		out = append(out, dayPayload{
			Date:    d.Date.Format("2006-01-02"),
			Weekday: d.Date.Weekday().String(),
			InMonth: d.InMonth,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"reference": ref.Format("2006-01-02"),
		"days":      out,
	})
}

type classPayload struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Language        string `json:"language,omitempty"`
	Level           string `json:"level,omitempty"`
	StartsAt        string `json:"starts_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Recurrence      string `json:"recurrence"`
	Ongoing         bool   `json:"ongoing"`
	MemberCount     int    `json:"member_count"`
	Capacity        int    `json:"capacity"`
}

// ServeClasses handles GET /api/calendar/classes?date=. It returns the
// classes that land on that day with their authoritative start times, so
// the client never has to re-derive recurrence placement.
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	day := parseDate(r.URL.Query().Get("date"), now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	docs, err := h.Classes.ListBetween(ctx, from, to)
	if err != nil {
		h.Log.Error("calendar: list classes failed", zap.Error(err))
		http.Error(w, "failed to load classes", http.StatusInternalServerError)
		return
	}

	byID := make(map[string]models.Class, len(docs))
	views := make([]schedule.Class, 0, len(docs))
	for _, d := range docs {
		v := classstore.ScheduleView(d)
		byID[v.ID] = d
		views = append(views, v)
	}

	out := make([]classPayload, 0)
	for _, v := range schedule.ClassesOnDay(views, day) {
		start, ok := schedule.AuthoritativeStart(v, day)
		if !ok {
			continue
		}
		doc := byID[v.ID]
		out = append(out, classPayload{
			ID:              v.ID,
			Name:            doc.Name,
			Language:        doc.Language,
			Level:           doc.Level,
			StartsAt:        start.UTC().Format(time.RFC3339),
			DurationMinutes: doc.DurationMinutes,
			Recurrence:      v.Recurrence.String(),
			Ongoing:         schedule.IsOngoing(v, now),
			MemberCount:     len(doc.MemberIDs),
			Capacity:        doc.Capacity,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"date":    day.Format("2006-01-02"),
		"classes": out,
	})
}

func parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}
	return t
}
