// internal/app/features/resources/routes.go
package resources

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the shared-material endpoints; mounted
// under /api/resources.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Delete("/{resourceID}", h.ServeDelete)
	return r
}
