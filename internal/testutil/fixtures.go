package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role ("student" or "tutor").
// SessionUID doubles as the ID membership lists store.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		SessionUID: uuid.NewString(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent creates a test student.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "student")
}

// CreateTutor creates a test tutor.
func (f *Fixtures) CreateTutor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "tutor")
}

// CreateGroup creates a test group administered by adminUID.
func (f *Fixtures) CreateGroup(ctx context.Context, name, adminUID string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Language:  "Spanish",
		AdminID:   adminUID,
		MemberIDs: []string{adminUID},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateClass creates a test class in the given group, scheduled at the
// given time (nil for an unscheduled "TBD" class).
func (f *Fixtures) CreateClass(ctx context.Context, name string, groupID primitive.ObjectID, scheduledAt *time.Time) models.Class {
	f.t.Helper()

	now := time.Now().UTC()
	class := models.Class{
		ID:              primitive.NewObjectID(),
		Name:            name,
		NameCI:          text.Fold(name),
		GroupID:         groupID,
		Language:        "Spanish",
		Level:           "B1",
		ScheduledAt:     scheduledAt,
		DurationMinutes: 60,
		Capacity:        8,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("classes").InsertOne(ctx, class); err != nil {
		f.t.Fatalf("failed to create test class: %v", err)
	}
	return class
}

// CreateWeeklyClass creates a repeating class with the given slots.
func (f *Fixtures) CreateWeeklyClass(ctx context.Context, name string, groupID primitive.ObjectID, scheduledAt time.Time, slots ...time.Time) models.Class {
	f.t.Helper()

	class := f.CreateClass(ctx, name, groupID, &scheduledAt)
	rs := make([]models.RecurringSlot, 0, len(slots))
	for _, s := range slots {
		rs = append(rs, models.RecurringSlot{At: s})
	}

	update := map[string]any{"recurrence": "weekly", "recurring_slots": rs}
	if _, err := f.db.Collection("classes").UpdateByID(ctx, class.ID, map[string]any{"$set": update}); err != nil {
		f.t.Fatalf("failed to make class weekly: %v", err)
	}
	class.Recurrence = "weekly"
	class.RecurringSlots = rs
	return class
}

// CreateBreakoutRoom creates a test breakout room for a class. A zero
// startedAt leaves the room unactivated.
func (f *Fixtures) CreateBreakoutRoom(ctx context.Context, classID primitive.ObjectID, capacity int, startedAt time.Time, length time.Duration) models.BreakoutRoom {
	f.t.Helper()

	room := models.BreakoutRoom{
		ID:              uuid.NewString(),
		ClassID:         classID,
		Name:            "Room",
		Capacity:        capacity,
		DurationMinutes: int(length / time.Minute),
		CreatedBy:       "fixture",
		CreatedAt:       time.Now().UTC(),
	}
	if !startedAt.IsZero() {
		s := startedAt
		e := startedAt.Add(length)
		room.StartedAt = &s
		room.EndAt = &e
	}

	if _, err := f.db.Collection("breakout_rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test breakout room: %v", err)
	}
	return room
}
