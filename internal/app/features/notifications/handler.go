// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	notificationstore "github.com/bammbuu/bammbuu-server/internal/app/store/notifications"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the in-app notification feed and its unread badge.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(notifications *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Log: logger}
}

// ServeList handles GET /api/notifications?limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Notifications.ListRecent(ctx, user.ID, limit)
	if err != nil {
		h.Log.Error("notifications: list failed", zap.Error(err))
		http.Error(w, "failed to load notifications", http.StatusInternalServerError)
		return
	}
	unread, err := h.Notifications.CountUnread(ctx, user.ID)
	if err != nil {
		h.Log.Error("notifications: count failed", zap.Error(err))
		http.Error(w, "failed to load notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"notifications": rows,
		"unread":        unread,
	})
}

// ServeMarkRead handles POST /api/notifications/{notificationID}/read.
func (h *Handler) ServeMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, chi.URLParam(r, "notificationID"), user.ID); err != nil {
		h.Log.Error("notifications: mark read failed", zap.Error(err))
		http.Error(w, "failed to update notification", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeMarkAllRead handles POST /api/notifications/read-all.
func (h *Handler) ServeMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, user.ID)
	if err != nil {
		h.Log.Error("notifications: mark all read failed", zap.Error(err))
		http.Error(w, "failed to update notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"marked": n})
}
