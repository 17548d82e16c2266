// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	resourcestore "github.com/bammbuu/bammbuu-server/internal/app/store/resources"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/htmlsanitize"
	"github.com/bammbuu/bammbuu-server/internal/app/system/limits"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the learning-group endpoints.
type Handler struct {
	Groups    *groupstore.Store
	Classes   *classstore.Store
	Resources *resourcestore.Store
	Log       *zap.Logger
}

func NewHandler(groups *groupstore.Store, classes *classstore.Store, resources *resourcestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Classes: classes, Resources: resources, Log: logger}
}

type groupPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Premium     bool   `json:"premium"`
	AdminID     string `json:"admin_id"`
	MemberCount int    `json:"member_count"`
	IsMember    bool   `json:"is_member"`
	IsAdmin     bool   `json:"is_admin"`
}

func payload(g models.Group, userID string) groupPayload {
	p := groupPayload{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		Language:    g.Language,
		Premium:     g.Premium,
		AdminID:     g.AdminID,
		MemberCount: len(g.MemberIDs),
		IsAdmin:     g.AdminID == userID,
	}
	for _, m := range g.MemberIDs {
		if m == userID {
			p.IsMember = true
			break
		}
	}
	return p
}

// ServeList handles GET /api/groups: the signed-in user's groups.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Groups.ListForUser(ctx, user.ID)
	if err != nil {
		h.Log.Error("groups: list failed", zap.Error(err))
		http.Error(w, "failed to load groups", http.StatusInternalServerError)
		return
	}

	out := make([]groupPayload, 0, len(rows))
	for _, g := range rows {
		out = append(out, payload(g, user.ID))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"groups": out})
}

type upsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Premium     bool   `json:"premium"`
}

// ServeCreate handles POST /api/groups. The creator becomes the group admin
// and its first member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Groups.Create(ctx, models.Group{
		Name:        strings.TrimSpace(req.Name),
		Description: htmlsanitize.SanitizeStrict(req.Description),
		Language:    req.Language,
		Premium:     req.Premium,
		AdminID:     user.ID,
	})
	if err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.Log.Error("groups: create failed", zap.Error(err))
		http.Error(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(payload(created, user.ID))
}

// ServeGet handles GET /api/groups/{groupID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("groups: get failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload(g, user.ID))
}

// ServeUpdate handles PUT /api/groups/{groupID}; admin only.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("groups: get failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	if g.AdminID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.Groups.UpdateInfo(ctx, id, strings.TrimSpace(req.Name), htmlsanitize.SanitizeStrict(req.Description)); err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.Log.Error("groups: update failed", zap.Error(err))
		http.Error(w, "failed to update group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeJoin handles POST /api/groups/{groupID}/join.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("groups: get failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}

	if err := h.Groups.AddMember(ctx, id, user.ID); err != nil {
		h.Log.Error("groups: join failed", zap.Error(err))
		http.Error(w, "failed to join group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeLeave handles POST /api/groups/{groupID}/leave. The admin cannot
// leave their own group; they delete it instead.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("groups: get failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	if g.AdminID == user.ID {
		http.Error(w, "the group admin cannot leave the group", http.StatusConflict)
		return
	}

	if err := h.Groups.RemoveMember(ctx, id, user.ID); err != nil {
		h.Log.Error("groups: leave failed", zap.Error(err))
		http.Error(w, "failed to leave group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/groups/{groupID}; admin only. The group's
// classes and resources go with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("groups: get failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	if g.AdminID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if _, err := h.Groups.Delete(ctx, id); err != nil {
		h.Log.Error("groups: delete failed", zap.Error(err))
		http.Error(w, "failed to delete group", http.StatusInternalServerError)
		return
	}
	if _, err := h.Classes.DeleteByGroup(ctx, id); err != nil {
		h.Log.Error("groups: cascade class delete failed", zap.Error(err))
	}
	if _, err := h.Resources.DeleteByGroup(ctx, id); err != nil {
		h.Log.Error("groups: cascade resource delete failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
