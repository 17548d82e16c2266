package rooms_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/features/rooms"
	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	roomstore "github.com/bammbuu/bammbuu-server/internal/app/store/rooms"
	"github.com/bammbuu/bammbuu-server/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *rooms.Handler {
	return rooms.NewHandler(roomstore.New(db), classstore.New(db), zap.NewNop())
}

// grantAdmin gives userID admin standing on the class.
func grantAdmin(t *testing.T, db *mongo.Database, classID primitive.ObjectID, userID string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := db.Collection("classes").UpdateByID(ctx, classID,
		bson.M{"$set": bson.M{"admin_ids": []string{userID}}}); err != nil {
		t.Fatalf("grant admin standing: %v", err)
	}
}

func TestServeCreate_StudentWithoutStanding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	when := time.Now().UTC()
	class := fixtures.CreateClass(ctx, "Conversation B1", group.ID, &when)

	student := testutil.StudentUser()
	body := `{"class_id":"` + class.ID.Hex() + `","capacity":4,"duration_minutes":20}`
	req := testutil.WithUser(httptest.NewRequest("POST", "/api/rooms", strings.NewReader(body)), student)
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestServeCreate_ClassAdminStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	when := time.Now().UTC()
	class := fixtures.CreateClass(ctx, "Conversation B1", group.ID, &when)

	student := testutil.StudentUser()
	grantAdmin(t, db, class.ID, student.ID)

	body := `{"class_id":"` + class.ID.Hex() + `","name":"Pairs","capacity":4,"duration_minutes":20}`
	req := testutil.WithUser(httptest.NewRequest("POST", "/api/rooms", strings.NewReader(body)), student)
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID        string   `json:"id"`
		Status    string   `json:"status"`
		Occupancy *float64 `json:"occupancy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected room id")
	}
	if resp.Status != "not_started" {
		t.Errorf("status: got %q, want not_started", resp.Status)
	}
	if resp.Occupancy == nil || *resp.Occupancy != 0 {
		t.Errorf("occupancy: got %v, want 0", resp.Occupancy)
	}
}

func TestServeCreate_TutorStandingRequired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	when := time.Now().UTC()
	class := fixtures.CreateClass(ctx, "Conversation B1", group.ID, &when)

	tutor := testutil.TutorUser()
	body := `{"class_id":"` + class.ID.Hex() + `","capacity":4,"duration_minutes":20}`

	// Tutor role alone is not enough; the class must be theirs.
	req := testutil.WithUser(httptest.NewRequest("POST", "/api/rooms", strings.NewReader(body)), tutor)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign tutor: got %d, want 403", rec.Code)
	}

	if _, err := db.Collection("classes").UpdateByID(ctx, class.ID,
		bson.M{"$set": bson.M{"tutor_id": tutor.ID}}); err != nil {
		t.Fatalf("assign tutor: %v", err)
	}
	req = testutil.WithUser(httptest.NewRequest("POST", "/api/rooms", strings.NewReader(body)), tutor)
	rec = httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("class tutor: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestServeStartAndGet_Countdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	when := time.Now().UTC()
	class := fixtures.CreateClass(ctx, "Conversation B1", group.ID, &when)
	room := fixtures.CreateBreakoutRoom(ctx, class.ID, 4, time.Time{}, 20*time.Minute)

	student := testutil.StudentUser()
	grantAdmin(t, db, class.ID, student.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/rooms/"+room.ID+"/start", student)
	req = testutil.WithChiURLParam(req, "roomID", room.ID)
	rec := httptest.NewRecorder()
	h.ServeStart(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status           string `json:"status"`
		EndAt            string `json:"end_at"`
		RemainingMinutes *int   `json:"remaining_minutes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "active" {
		t.Errorf("status: got %q, want active", resp.Status)
	}
	if resp.EndAt == "" {
		t.Error("expected end_at to be set")
	}
	if resp.RemainingMinutes == nil || *resp.RemainingMinutes > 20 || *resp.RemainingMinutes < 19 {
		t.Errorf("remaining_minutes: got %v, want about 20", resp.RemainingMinutes)
	}

	req = testutil.NewAuthenticatedRequest("GET", "/api/rooms/"+room.ID, student)
	req = testutil.WithChiURLParam(req, "roomID", room.ID)
	rec = httptest.NewRecorder()
	h.ServeGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("get status: got %d, want 200", rec.Code)
	}
}

func TestServeJoin_FullAndExpiredRooms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	when := time.Now().UTC()
	class := fixtures.CreateClass(ctx, "Conversation B1", group.ID, &when)

	student := testutil.StudentUser()

	// Active room with one free seat: join succeeds and is idempotent.
	open := fixtures.CreateBreakoutRoom(ctx, class.ID, 2, time.Now().UTC(), 20*time.Minute)
	req := testutil.NewAuthenticatedRequest("POST", "/api/rooms/"+open.ID+"/join", student)
	req = testutil.WithChiURLParam(req, "roomID", open.ID)
	rec := httptest.NewRecorder()
	h.ServeJoin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("join status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Full room rejects a stranger but keeps letting the member back in.
	full := fixtures.CreateBreakoutRoom(ctx, class.ID, 1, time.Now().UTC(), 20*time.Minute)
	if _, err := db.Collection("breakout_rooms").UpdateByID(ctx, full.ID,
		bson.M{"$set": bson.M{"members": []string{"occupant"}}}); err != nil {
		t.Fatalf("seed members: %v", err)
	}
	req = testutil.NewAuthenticatedRequest("POST", "/api/rooms/"+full.ID+"/join", student)
	req = testutil.WithChiURLParam(req, "roomID", full.ID)
	rec = httptest.NewRecorder()
	h.ServeJoin(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("full room: got %d, want 409", rec.Code)
	}
	var reason struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reason); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if reason.Reason != "full" {
		t.Errorf("reason: got %q, want full", reason.Reason)
	}

	occupant := testutil.TestUser{ID: "occupant", Role: "student"}
	req = testutil.NewAuthenticatedRequest("POST", "/api/rooms/"+full.ID+"/join", occupant)
	req = testutil.WithChiURLParam(req, "roomID", full.ID)
	rec = httptest.NewRecorder()
	h.ServeJoin(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("member rejoin: got %d, want 200", rec.Code)
	}

	// Expired room rejects everyone new.
	expired := fixtures.CreateBreakoutRoom(ctx, class.ID, 4,
		time.Now().UTC().Add(-1*time.Hour), 20*time.Minute)
	req = testutil.NewAuthenticatedRequest("POST", "/api/rooms/"+expired.ID+"/join", student)
	req = testutil.WithChiURLParam(req, "roomID", expired.ID)
	rec = httptest.NewRecorder()
	h.ServeJoin(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expired room: got %d, want 409", rec.Code)
	}
}
