// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/system/status"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateResourceTitle = errors.New("a resource with this title already exists in the group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	r.ID = primitive.NewObjectID()
	r.TitleCI = text.Fold(r.Title)
	if r.Status == "" {
		r.Status = status.Active
	}
	r.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, r)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Resource{}, ErrDuplicateResourceTitle
		}
		return models.Resource{}, err
	}
	return r, nil
}

// ListByGroup returns a group's active resources ordered by folded title.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID, "status": status.Active},
		options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Resource
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all resources belonging to a group.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
