// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/bammbuu/bammbuu-server/internal/app/system/auth"
	"github.com/bammbuu/bammbuu-server/internal/app/system/status"
)

// Fetcher adapts the store to the session middleware, which refreshes the
// signed-in user's details on each request.
type Fetcher struct {
	store *Store
}

func NewFetcher(store *Store) *Fetcher {
	return &Fetcher{store: store}
}

// FetchSessionUser returns the session view of a user, or false when the
// account is missing or disabled so the middleware signs the session out.
func (f *Fetcher) FetchSessionUser(ctx context.Context, id string) (*auth.SessionUser, bool) {
	u, err := f.store.GetBySessionUID(ctx, id)
	if err != nil {
		return nil, false
	}
	if u.Status != status.Active {
		return nil, false
	}
	return &auth.SessionUser{
		ID:    u.SessionUID,
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}, true
}
