// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/system/status"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateSessionUID = errors.New("a user with this session uid already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetBySessionUID looks up a user by the identifier the auth provider put in
// the session. This is the hot path behind every authenticated request.
func (s *Store) GetBySessionUID(ctx context.Context, uid string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"session_uid": uid}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = strings.ToLower(u.Email)
	if u.Status == "" {
		u.Status = status.Active
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateSessionUID
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile sets the mutable profile fields for a user.
func (s *Store) UpdateProfile(ctx context.Context, uid, fullName, nativeLanguage, learningLanguage, timeZone string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if strings.TrimSpace(fullName) != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	if nativeLanguage != "" {
		set["native_language"] = nativeLanguage
	}
	if learningLanguage != "" {
		set["learning_language"] = learningLanguage
	}
	if timeZone != "" {
		set["time_zone"] = timeZone
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"session_uid": uid}, bson.M{"$set": set})
	return err
}
