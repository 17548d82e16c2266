// internal/app/features/calendar/routes.go
package calendar

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the calendar endpoints; mounted under
// /api/calendar behind the signed-in gate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/days", h.ServeDays)
	r.Get("/classes", h.ServeClasses)
	return r
}
