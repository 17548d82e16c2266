// internal/app/features/rooms/handler.go
package rooms

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	roomstore "github.com/bammbuu/bammbuu-server/internal/app/store/rooms"
	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/breakout"
	"github.com/bammbuu/bammbuu-server/internal/app/system/limits"
	"github.com/bammbuu/bammbuu-server/internal/app/system/timeouts"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the breakout-room lifecycle endpoints.
type Handler struct {
	Rooms   *roomstore.Store
	Classes *classstore.Store
	Log     *zap.Logger
}

func NewHandler(rooms *roomstore.Store, classes *classstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Rooms: rooms, Classes: classes, Log: logger}
}

type roomPayload struct {
	ID              string   `json:"id"`
	ClassID         string   `json:"class_id"`
	Name            string   `json:"name"`
	Members         []string `json:"members"`
	Capacity        int      `json:"capacity"`
	DurationMinutes int      `json:"duration_minutes"`
	Status          string   `json:"status"` // "not_started" | "active" | "expired"
	StartedAt       string   `json:"started_at,omitempty"`
	EndAt           string   `json:"end_at,omitempty"`

	RemainingMinutes *int     `json:"remaining_minutes,omitempty"`
	RemainingSeconds *int     `json:"remaining_seconds,omitempty"`
	Occupancy        *float64 `json:"occupancy,omitempty"`
}

func payload(r models.BreakoutRoom, now time.Time) roomPayload {
	v := roomstore.View(r)

	p := roomPayload{
		ID:              r.ID,
		ClassID:         r.ClassID.Hex(),
		Name:            r.Name,
		Members:         r.Members,
		Capacity:        r.Capacity,
		DurationMinutes: r.DurationMinutes,
		Status:          breakout.RoomStatus(v, now).String(),
	}
	if r.StartedAt != nil {
		p.StartedAt = r.StartedAt.UTC().Format(time.RFC3339)
	}
	if r.EndAt != nil {
		p.EndAt = r.EndAt.UTC().Format(time.RFC3339)
	}
	if rem, ok := breakout.RemainingTime(v, now); ok && !rem.Expired {
		p.RemainingMinutes = &rem.Minutes
		p.RemainingSeconds = &rem.Seconds
	}
	// A zero-capacity room has an undefined ratio, which JSON cannot carry.
	if ratio := breakout.OccupancyRatio(v); !math.IsInf(ratio, 0) && !math.IsNaN(ratio) {
		p.Occupancy = &ratio
	}
	return p
}

// standing builds the permission context for a user against a class. Room
// rights derive from class standing, not from a stored role grant.
func (h *Handler) standing(ctx context.Context, userID, role, classID string) (breakout.PermissionContext, error) {
	adminIDs, tutorIDs, err := h.Classes.StandingFor(ctx, userID)
	if err != nil {
		return breakout.PermissionContext{}, err
	}
	return breakout.NewPermissionContext(breakout.Role(strings.ToLower(role)), adminIDs, tutorIDs, classID), nil
}

type createRequest struct {
	ClassID         string `json:"class_id"`
	Name            string `json:"name"`
	Capacity        int    `json:"capacity"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ServeCreate handles POST /api/rooms. Students need admin standing on the
// class, tutors need to be its tutor.
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
	classID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		http.Error(w, "class_id is required", http.StatusBadRequest)
		return
	}
	if req.Capacity < 1 {
		http.Error(w, "capacity must be at least 1", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes < 1 {
		http.Error(w, "duration_minutes must be at least 1", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pc, err := h.standing(ctx, user.ID, user.Role, req.ClassID)
	if err != nil {
		h.Log.Error("rooms: load standing failed", zap.Error(err))
		http.Error(w, "failed to check permissions", http.StatusInternalServerError)
		return
	}
	if !breakout.CanCreateRooms(pc) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Breakout Room"
	}
	created, err := h.Rooms.Create(ctx, models.BreakoutRoom{
		ClassID:         classID,
		Name:            name,
		Capacity:        req.Capacity,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       user.ID,
	})
	if err != nil {
		h.Log.Error("rooms: create failed", zap.Error(err))
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(payload(created, time.Now().UTC()))
}

// ServeList handles GET /api/rooms?class_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	classID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("class_id"))
	if err != nil {
		http.Error(w, "class_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rooms, err := h.Rooms.ListByClass(ctx, classID)
	if err != nil {
		h.Log.Error("rooms: list failed", zap.Error(err))
		http.Error(w, "failed to load rooms", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	out := make([]roomPayload, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, payload(room, now))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"rooms": out})
}

// ServeGet handles GET /api/rooms/{roomID}: the status/countdown poll.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, chi.URLParam(r, "roomID"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		h.Log.Error("rooms: get failed", zap.Error(err))
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload(room, time.Now().UTC()))
}

// ServeJoin handles POST /api/rooms/{roomID}/join. Eligibility is decided
// against a snapshot; members always pass so a reconnecting client is never
// locked out of its own room.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, chi.URLParam(r, "roomID"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		h.Log.Error("rooms: get failed", zap.Error(err))
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	decision := breakout.CanJoin(roomstore.View(room), user.ID, now)
	if !decision.Eligible {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"reason": string(decision.Reason)})
		return
	}

	if decision.Reason != breakout.JoinAlreadyMember {
		if err := h.Rooms.AddMember(ctx, room.ID, user.ID); err != nil {
			h.Log.Error("rooms: add member failed", zap.Error(err))
			http.Error(w, "failed to join room", http.StatusInternalServerError)
			return
		}
	}

	room, err = h.Rooms.GetByID(ctx, room.ID)
	if err != nil {
		h.Log.Error("rooms: reload failed", zap.Error(err))
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload(room, now))
}

// ServeStart handles POST /api/rooms/{roomID}/start. Same gate as creation;
// starting is idempotent so a second press reports the running session.
func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, chi.URLParam(r, "roomID"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		h.Log.Error("rooms: get failed", zap.Error(err))
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}

	pc, err := h.standing(ctx, user.ID, user.Role, room.ClassID.Hex())
	if err != nil {
		h.Log.Error("rooms: load standing failed", zap.Error(err))
		http.Error(w, "failed to check permissions", http.StatusInternalServerError)
		return
	}
	if !breakout.CanCreateRooms(pc) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	now := time.Now().UTC()
	started, err := h.Rooms.Start(ctx, room.ID, now)
	if err != nil {
		h.Log.Error("rooms: start failed", zap.Error(err))
		http.Error(w, "failed to start room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload(started, now))
}
