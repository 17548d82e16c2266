// internal/app/features/resources/handler.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	resourcestore "github.com/bammbuu/bammbuu-server/internal/app/store/resources"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/limits"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the shared-material endpoints. File bytes live with the
// object-storage collaborator; these endpoints manage the metadata.
type Handler struct {
	Resources *resourcestore.Store
	Groups    *groupstore.Store
	Log       *zap.Logger
}

func NewHandler(resources *resourcestore.Store, groups *groupstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Resources: resources, Groups: groups, Log: logger}
}

var allowedTypes = map[string]bool{
	"document":  true,
	"recording": true,
	"link":      true,
}

type createRequest struct {
	Title   string `json:"title"`
	GroupID string `json:"group_id"`
	Type    string `json:"type"`
	FileURL string `json:"file_url"`
}

// ServeCreate handles POST /api/resources. Only the group admin shares
// materials into a group.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if !allowedTypes[req.Type] {
		http.Error(w, "type must be document, recording or link", http.StatusBadRequest)
		return
	}
	if req.FileURL != "" {
		if u, err := url.Parse(req.FileURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			http.Error(w, "file_url must be an http(s) URL", http.StatusBadRequest)
			return
		}
	}
	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("resources: load group failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	if group.AdminID != user.ID && group.TutorID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	created, err := h.Resources.Create(ctx, models.Resource{
		Title:     strings.TrimSpace(req.Title),
		GroupID:   &groupID,
		Type:      req.Type,
		FileURL:   req.FileURL,
		CreatedBy: user.ID,
	})
	if err != nil {
		if err == resourcestore.ErrDuplicateResourceTitle {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.Log.Error("resources: create failed", zap.Error(err))
		http.Error(w, "failed to create resource", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeList handles GET /api/resources?group_id=. Group members only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	groupID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("group_id"))
	if err != nil {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("resources: load group failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	member := false
	for _, m := range group.MemberIDs {
		if m == user.ID {
			member = true
			break
		}
	}
	if !member && group.TutorID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	rows, err := h.Resources.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("resources: list failed", zap.Error(err))
		http.Error(w, "failed to load resources", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"resources": rows})
}

// ServeDelete handles DELETE /api/resources/{resourceID}. The uploader or
// the group admin may remove a resource.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "resourceID"))
	if err != nil {
		http.Error(w, "invalid resource id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "resource not found", http.StatusNotFound)
			return
		}
		h.Log.Error("resources: get failed", zap.Error(err))
		http.Error(w, "failed to load resource", http.StatusInternalServerError)
		return
	}

	allowed := res.CreatedBy == user.ID
	if !allowed && res.GroupID != nil {
		if group, err := h.Groups.GetByID(ctx, *res.GroupID); err == nil {
			allowed = group.AdminID == user.ID
		}
	}
	if !allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if _, err := h.Resources.Delete(ctx, id); err != nil {
		h.Log.Error("resources: delete failed", zap.Error(err))
		http.Error(w, "failed to delete resource", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
