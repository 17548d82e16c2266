// internal/app/features/classes/handler.go
package classes

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	roomstore "github.com/bammbuu/bammbuu-server/internal/app/store/rooms"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/htmlsanitize"
	"github.com/bammbuu/bammbuu-server/internal/app/system/limits"
	"github.com/bammbuu/bammbuu-server/internal/app/system/schedule"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the class CRUD and enrollment endpoints.
type Handler struct {
	Classes *classstore.Store
	Groups  *groupstore.Store
	Rooms   *roomstore.Store
	Log     *zap.Logger
}

func NewHandler(classes *classstore.Store, groups *groupstore.Store, rooms *roomstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Classes: classes, Groups: groups, Rooms: rooms, Log: logger}
}

// cardPayload is the class card the dashboard renders. The label fields are
// semantic; the client localizes weekday names and date formats.
type cardPayload struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	GroupID         string   `json:"group_id"`
	Language        string   `json:"language,omitempty"`
	Level           string   `json:"level,omitempty"`
	Recurrence      string   `json:"recurrence"`
	DurationMinutes int      `json:"duration_minutes"`
	MemberCount     int      `json:"member_count"`
	Capacity        int      `json:"capacity"`
	LabelKind       string   `json:"label_kind"` // "tbd" | "weekday" | "date"
	LabelWeekday    string   `json:"label_weekday,omitempty"`
	LabelDate       string   `json:"label_date,omitempty"`
	NextOccurrence  string   `json:"next_occurrence,omitempty"`
	Ongoing         bool     `json:"ongoing"`
	MemberIDs       []string `json:"member_ids,omitempty"`
}

func card(doc models.Class, now time.Time) cardPayload {
	v := classstore.ScheduleView(doc)

	p := cardPayload{
		ID:              v.ID,
		Name:            doc.Name,
		Description:     doc.Description,
		GroupID:         doc.GroupID.Hex(),
		Language:        doc.Language,
		Level:           doc.Level,
		Recurrence:      v.Recurrence.String(),
		DurationMinutes: doc.DurationMinutes,
		MemberCount:     len(doc.MemberIDs),
		Capacity:        doc.Capacity,
		Ongoing:         schedule.IsOngoing(v, now),
		MemberIDs:       doc.MemberIDs,
	}

	switch l := schedule.DisplayLabel(v, now); l.Kind {
	case schedule.LabelWeekday:
		p.LabelKind = "weekday"
		p.LabelWeekday = l.Weekday.String()
	case schedule.LabelDate:
		p.LabelKind = "date"
		p.LabelDate = l.Date.UTC().Format("2006-01-02")
	default:
		p.LabelKind = "tbd"
	}

	if next, ok := schedule.NextOccurrence(v, now); ok {
		p.NextOccurrence = next.UTC().Format(time.RFC3339)
	}
	return p
}

// ServeList handles GET /api/classes?group_id=&after=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("group_id"))
	if err != nil {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, next, err := h.Classes.ListByGroup(ctx, groupID, r.URL.Query().Get("after"), limit)
	if err != nil {
		h.Log.Error("classes: list failed", zap.Error(err))
		http.Error(w, "failed to load classes", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	cards := make([]cardPayload, 0, len(rows))
	for _, doc := range rows {
		cards = append(cards, card(doc, now))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"classes": cards,
		"next":    next,
	})
}

// ServeGet handles GET /api/classes/{classID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "classID"))
	if err != nil {
		http.Error(w, "invalid class id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Classes.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "class not found", http.StatusNotFound)
			return
		}
		h.Log.Error("classes: get failed", zap.Error(err))
		http.Error(w, "failed to load class", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(card(doc, time.Now().UTC()))
}

type createRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	GroupID         string   `json:"group_id"`
	Language        string   `json:"language"`
	Level           string   `json:"level"`
	ScheduledAt     string   `json:"scheduled_at"` // RFC 3339, optional
	DurationMinutes int      `json:"duration_minutes"`
	Recurrence      string   `json:"recurrence"`
	Slots           []string `json:"slots"` // RFC 3339
	Capacity        int      `json:"capacity"`
}

// ServeCreate handles POST /api/classes. Tutors create classes anywhere;
// students only in groups they administer.
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
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		h.Log.Error("classes: load group failed", zap.Error(err))
		http.Error(w, "failed to load group", http.StatusInternalServerError)
		return
	}
	if !strings.EqualFold(user.Role, "tutor") && group.AdminID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	doc := models.Class{
		Name:            strings.TrimSpace(req.Name),
		Description:     htmlsanitize.SanitizeStrict(req.Description),
		GroupID:         groupID,
		Language:        req.Language,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
		AdminIDs:        []string{user.ID},
	}
	// Store the normalized spelling so queries never see the legacy variants.
	if rec := schedule.ParseRecurrence(req.Recurrence); rec != schedule.RecurrenceNone {
		doc.Recurrence = models.RecurrenceValue(rec.String())
	}
	if strings.EqualFold(user.Role, "tutor") {
		doc.TutorID = user.ID
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC 3339", http.StatusBadRequest)
			return
		}
		utc := at.UTC()
		doc.ScheduledAt = &utc
	}
	for _, raw := range req.Slots {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "slots must be RFC 3339", http.StatusBadRequest)
			return
		}
		doc.RecurringSlots = append(doc.RecurringSlots, models.RecurringSlot{At: at.UTC()})
	}

	created, err := h.Classes.Create(ctx, doc)
	if err != nil {
		if err == classstore.ErrDuplicateClassName {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.Log.Error("classes: create failed", zap.Error(err))
		http.Error(w, "failed to create class", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(card(created, time.Now().UTC()))
}

// ServeJoin handles POST /api/classes/{classID}/join. Capacity is checked
// against a snapshot; the store write itself is idempotent.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "classID"))
	if err != nil {
		http.Error(w, "invalid class id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Classes.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "class not found", http.StatusNotFound)
			return
		}
		h.Log.Error("classes: get failed", zap.Error(err))
		http.Error(w, "failed to load class", http.StatusInternalServerError)
		return
	}

	already := false
	for _, m := range doc.MemberIDs {
		if m == user.ID {
			already = true
			break
		}
	}
	if !already && doc.Capacity > 0 && len(doc.MemberIDs) >= doc.Capacity {
		http.Error(w, "class is full", http.StatusConflict)
		return
	}

	if err := h.Classes.Join(ctx, id, user.ID); err != nil {
		h.Log.Error("classes: join failed", zap.Error(err))
		http.Error(w, "failed to join class", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeLeave handles POST /api/classes/{classID}/leave.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "classID"))
	if err != nil {
		http.Error(w, "invalid class id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Classes.Leave(ctx, id, user.ID); err != nil {
		h.Log.Error("classes: leave failed", zap.Error(err))
		http.Error(w, "failed to leave class", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/classes/{classID}. Only the class tutor or
// an admin may delete; the class's breakout rooms go with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "classID"))
	if err != nil {
		http.Error(w, "invalid class id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	doc, err := h.Classes.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "class not found", http.StatusNotFound)
			return
		}
		h.Log.Error("classes: get failed", zap.Error(err))
		http.Error(w, "failed to load class", http.StatusInternalServerError)
		return
	}

	allowed := doc.TutorID == user.ID
	for _, a := range doc.AdminIDs {
		if a == user.ID {
			allowed = true
			break
		}
	}
	if !allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if _, err := h.Classes.Delete(ctx, id); err != nil {
		h.Log.Error("classes: delete failed", zap.Error(err))
		http.Error(w, "failed to delete class", http.StatusInternalServerError)
		return
	}
	if _, err := h.Rooms.DeleteByClass(ctx, id); err != nil {
		h.Log.Error("classes: delete rooms failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
