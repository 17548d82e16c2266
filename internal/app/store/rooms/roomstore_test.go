package roomstore_test

import (
	"testing"
	"time"

	roomstore "github.com/bammbuu/bammbuu-server/internal/app/store/rooms"
	"github.com/bammbuu/bammbuu-server/internal/app/system/breakout"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/bammbuu/bammbuu-server/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	room := models.BreakoutRoom{
		ClassID:         primitive.NewObjectID(),
		Name:            "Room 1",
		Capacity:        4,
		DurationMinutes: 20,
		CreatedBy:       "tutor-uid",
	}

	created, err := store.Create(ctx, room)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if created.StartedAt != nil || created.EndAt != nil {
		t.Error("new room should not be started")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "no-such-room"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Start(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	classID := primitive.NewObjectID()
	room := fixtures.CreateBreakoutRoom(ctx, classID, 4, time.Time{}, 20*time.Minute)

	now := time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)
	started, err := store.Start(ctx, room.ID, now)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.StartedAt == nil || !started.StartedAt.Equal(now) {
		t.Errorf("StartedAt: got %v, want %v", started.StartedAt, now)
	}
	wantEnd := now.Add(20 * time.Minute)
	if started.EndAt == nil || !started.EndAt.Equal(wantEnd) {
		t.Errorf("EndAt: got %v, want %v", started.EndAt, wantEnd)
	}

	// Starting again must not move the window.
	again, err := store.Start(ctx, room.ID, now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if !again.StartedAt.Equal(now) || !again.EndAt.Equal(wantEnd) {
		t.Errorf("second Start moved the window: started %v end %v", again.StartedAt, again.EndAt)
	}
}

func TestStore_AddMemberAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := roomstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	classID := primitive.NewObjectID()
	r1 := fixtures.CreateBreakoutRoom(ctx, classID, 4, time.Time{}, 20*time.Minute)
	fixtures.CreateBreakoutRoom(ctx, classID, 4, time.Time{}, 20*time.Minute)
	fixtures.CreateBreakoutRoom(ctx, primitive.NewObjectID(), 4, time.Time{}, 20*time.Minute)

	if err := store.AddMember(ctx, r1.ID, "u1"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.AddMember(ctx, r1.ID, "u1"); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	got, err := store.GetByID(ctx, r1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0] != "u1" {
		t.Errorf("Members: got %v, want [u1]", got.Members)
	}

	rooms, err := store.ListByClass(ctx, classID)
	if err != nil {
		t.Fatalf("ListByClass failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("ListByClass: got %d rooms, want 2", len(rooms))
	}
}

func TestView(t *testing.T) {
	start := time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	r := models.BreakoutRoom{
		ID:        "room-1",
		Members:   []string{"u1", "u2"},
		Capacity:  4,
		StartedAt: &start,
		EndAt:     &end,
	}

	v := roomstore.View(r)
	if v.ID != "room-1" || v.Capacity != 4 || len(v.Members) != 2 {
		t.Errorf("View: got %+v", v)
	}
	if breakout.RoomStatus(v, start.Add(10*time.Minute)) != breakout.Active {
		t.Error("expected view of a started room to be active mid-session")
	}
}
