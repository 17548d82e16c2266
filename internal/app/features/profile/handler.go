// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	userstore "github.com/bammbuu/bammbuu-server/internal/app/store/users"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/limits"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timezones"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's profile.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type profilePayload struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	NativeLanguage   string `json:"native_language,omitempty"`
	LearningLanguage string `json:"learning_language,omitempty"`
	TimeZone         string `json:"time_zone,omitempty"`
	TimeZoneLabel    string `json:"time_zone_label,omitempty"`
}

// ServeGet handles GET /api/profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetBySessionUID(ctx, user.ID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		h.Log.Error("profile: get failed", zap.Error(err))
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profilePayload{
		ID:               u.SessionUID,
		FullName:         u.FullName,
		Email:            u.Email,
		Role:             u.Role,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		TimeZone:         u.TimeZone,
		TimeZoneLabel:    timezones.Label(u.TimeZone),
	})
}

type updateRequest struct {
	FullName         string `json:"full_name"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	TimeZone         string `json:"time_zone"`
}

// ServeUpdate handles PUT /api/profile. Blank fields keep their current
// values; time_zone must be one of the curated zone IDs.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.TimeZone != "" && !timezones.Valid(req.TimeZone) {
		http.Error(w, "unknown time_zone", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, user.ID,
		strings.TrimSpace(req.FullName), req.NativeLanguage, req.LearningLanguage, req.TimeZone); err != nil {
		h.Log.Error("profile: update failed", zap.Error(err))
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeTimezones handles GET /api/profile/timezones: the picker list.
func (h *Handler) ServeTimezones(w http.ResponseWriter, r *http.Request) {
	zones, err := timezones.All()
	if err != nil {
		h.Log.Error("profile: timezone list failed", zap.Error(err))
		http.Error(w, "failed to load timezones", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"timezones": zones})
}
