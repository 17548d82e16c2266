// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the userinfo endpoint; mounted under
// /api/userinfo. Unauthenticated requests get isAuthenticated:false rather
// than a 401, so clients can probe session state.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeUserInfo)
	return r
}
