package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bammbuu/bammbuu-server/internal/app/features/profile"
	userstore "github.com/bammbuu/bammbuu-server/internal/app/store/users"
	"github.com/bammbuu/bammbuu-server/internal/testutil"
	"go.uber.org/zap"
)

func TestServeUpdate_RejectsUnknownTimeZone(t *testing.T) {
	h := profile.NewHandler(nil, zap.NewNop())
	student := testutil.StudentUser()

	body := `{"time_zone":"Mars/Olympus"}`
	req := testutil.WithUser(httptest.NewRequest("PUT", "/api/profile", strings.NewReader(body)), student)
	rec := httptest.NewRecorder()

	h.ServeUpdate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestServeTimezones(t *testing.T) {
	h := profile.NewHandler(nil, zap.NewNop())
	student := testutil.StudentUser()

	req := testutil.NewAuthenticatedRequest("GET", "/api/profile/timezones", student)
	rec := httptest.NewRecorder()

	h.ServeTimezones(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Timezones []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"timezones"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Timezones) == 0 {
		t.Error("expected a non-empty timezone list")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := profile.NewHandler(userstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateStudent(ctx, "Ana García", "ana@example.com")
	session := testutil.TestUser{ID: u.SessionUID, Name: u.FullName, Email: u.Email, Role: u.Role}

	body := `{"full_name":"Ana María García","learning_language":"English","time_zone":"America/Mexico_City"}`
	req := testutil.WithUser(httptest.NewRequest("PUT", "/api/profile", strings.NewReader(body)), session)
	rec := httptest.NewRecorder()
	h.ServeUpdate(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	req = testutil.NewAuthenticatedRequest("GET", "/api/profile", session)
	rec = httptest.NewRecorder()
	h.ServeGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		FullName         string `json:"full_name"`
		LearningLanguage string `json:"learning_language"`
		TimeZone         string `json:"time_zone"`
		TimeZoneLabel    string `json:"time_zone_label"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.FullName != "Ana María García" {
		t.Errorf("full_name: got %q", resp.FullName)
	}
	if resp.LearningLanguage != "English" {
		t.Errorf("learning_language: got %q", resp.LearningLanguage)
	}
	if resp.TimeZone != "America/Mexico_City" || resp.TimeZoneLabel != "Mexico City" {
		t.Errorf("time zone: got %q / %q", resp.TimeZone, resp.TimeZoneLabel)
	}
}
