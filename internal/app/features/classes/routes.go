// internal/app/features/classes/routes.go
package classes

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the class endpoints; mounted under
// /api/classes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{classID}", h.ServeGet)
	r.Post("/{classID}/join", h.ServeJoin)
	r.Post("/{classID}/leave", h.ServeLeave)
	r.Delete("/{classID}", h.ServeDelete)
	return r
}
