// internal/app/features/rooms/routes.go
package rooms

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the breakout-room endpoints; mounted under
// /api/rooms.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{roomID}", h.ServeGet)
	r.Post("/{roomID}/join", h.ServeJoin)
	r.Post("/{roomID}/start", h.ServeStart)
	return r
}
