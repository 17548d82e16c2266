package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/google/uuid"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// StudentUser returns a TestUser with the student role.
func StudentUser() TestUser {
	return TestUser{
		ID:    uuid.NewString(),
		Name:  "Test Student",
		Email: "student@test.com",
		Role:  "student",
	}
}

// TutorUser returns a TestUser with the tutor role.
func TutorUser() TestUser {
	return TestUser{
		ID:    uuid.NewString(),
		Name:  "Test Tutor",
		Email: "tutor@test.com",
		Role:  "tutor",
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
