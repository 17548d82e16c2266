package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bammbuu/bammbuu-server/internal/app/features/groups"
	classstore "github.com/bammbuu/bammbuu-server/internal/app/store/classes"
	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	resourcestore "github.com/bammbuu/bammbuu-server/internal/app/store/resources"
	"github.com/bammbuu/bammbuu-server/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *groups.Handler {
	return groups.NewHandler(
		groupstore.New(db),
		classstore.New(db),
		resourcestore.New(db),
		zap.NewNop(),
	)
}

func TestServeCreate_Unauthenticated(t *testing.T) {
	h := groups.NewHandler(nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/groups", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestServeCreate_AdminIsFirstMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)

	student := testutil.StudentUser()
	body := `{"name":"Spanish Learners","description":"<script>x</script>Practice","language":"Spanish"}`
	req := testutil.WithUser(httptest.NewRequest("POST", "/api/groups", strings.NewReader(body)), student)
	rec := httptest.NewRecorder()

	h.ServeCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		IsAdmin     bool   `json:"is_admin"`
		IsMember    bool   `json:"is_member"`
		MemberCount int    `json:"member_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.IsAdmin || !resp.IsMember || resp.MemberCount != 1 {
		t.Errorf("creator standing: %+v", resp)
	}
	if strings.Contains(resp.Description, "script") {
		t.Errorf("description was not sanitized: %q", resp.Description)
	}
}

func TestServeJoinLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Spanish Learners", "admin-uid")
	student := testutil.StudentUser()

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/join", student)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeJoin(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("join status: got %d, want 204", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest("GET", "/api/groups", student)
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	var list struct {
		Groups []struct {
			Name string `json:"name"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(list.Groups) != 1 || list.Groups[0].Name != "Spanish Learners" {
		t.Errorf("list after join: got %+v", list.Groups)
	}

	req = testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/leave", student)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeLeave(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("leave status: got %d, want 204", rec.Code)
	}
}

func TestServeLeave_AdminBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := testutil.StudentUser()
	group := fixtures.CreateGroup(ctx, "Spanish Learners", admin.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/leave", admin)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeLeave(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestServeDelete_CascadesToClasses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := testutil.StudentUser()
	group := fixtures.CreateGroup(ctx, "Spanish Learners", admin.ID)
	fixtures.CreateClass(ctx, "Conversation B1", group.ID, nil)

	// Non-admin cannot delete.
	other := testutil.StudentUser()
	req := testutil.NewAuthenticatedRequest("DELETE", "/api/groups/"+group.ID.Hex(), other)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin delete: got %d, want 403", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest("DELETE", "/api/groups/"+group.ID.Hex(), admin)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete: got %d, want 204", rec.Code)
	}

	n, err := db.Collection("classes").CountDocuments(ctx, map[string]any{"group_id": group.ID})
	if err != nil {
		t.Fatalf("count classes: %v", err)
	}
	if n != 0 {
		t.Errorf("classes after group delete: got %d, want 0", n)
	}
}
