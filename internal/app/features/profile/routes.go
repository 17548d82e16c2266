// internal/app/features/profile/routes.go
package profile

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the profile endpoints; mounted under
// /api/profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeGet)
	r.Put("/", h.ServeUpdate)
	r.Get("/timezones", h.ServeTimezones)
	return r
}
