// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the notification endpoints; mounted under
// /api/notifications.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/read-all", h.ServeMarkAllRead)
	r.Post("/{notificationID}/read", h.ServeMarkRead)
	return r
}
