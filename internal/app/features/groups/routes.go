// internal/app/features/groups/routes.go
package groups

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the group endpoints; mounted under
// /api/groups.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{groupID}", h.ServeGet)
	r.Put("/{groupID}", h.ServeUpdate)
	r.Post("/{groupID}/join", h.ServeJoin)
	r.Post("/{groupID}/leave", h.ServeLeave)
	r.Delete("/{groupID}", h.ServeDelete)
	return r
}
