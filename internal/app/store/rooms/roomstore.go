// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/system/breakout"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("breakout_rooms")}
}

// Create inserts a new, not-yet-started room. IDs are minted here rather
// than by Mongo so they are stable strings for video-session URLs.
func (s *Store) Create(ctx context.Context, r models.BreakoutRoom) (models.BreakoutRoom, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	r.StartedAt = nil
	r.EndAt = nil
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.BreakoutRoom{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.BreakoutRoom, error) {
	var r models.BreakoutRoom
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.BreakoutRoom{}, err
	}
	return r, nil
}

func (s *Store) ListByClass(ctx context.Context, classID primitive.ObjectID) ([]models.BreakoutRoom, error) {
	cur, err := s.c.Find(ctx, bson.M{"class_id": classID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BreakoutRoom
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember records a join. Like the class store, this mutates blindly;
// eligibility was decided by the caller via breakout.CanJoin against a
// snapshot of the room.
func (s *Store) AddMember(ctx context.Context, id, userID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"members": userID},
	})
	return err
}

// Start activates the room at now, deriving end_at from the configured
// session length. Starting an already-started room is a no-op so two
// facilitators racing the button cannot extend the session.
func (s *Store) Start(ctx context.Context, id string, now time.Time) (models.BreakoutRoom, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return models.BreakoutRoom{}, err
	}
	if r.StartedAt != nil {
		return r, nil
	}

	start := now.UTC()
	end := start.Add(time.Duration(r.DurationMinutes) * time.Minute)
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "started_at": nil},
		bson.M{"$set": bson.M{"started_at": start, "end_at": end}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			// Lost the race; return the winner's state.
			return s.GetByID(ctx, id)
		}
		return models.BreakoutRoom{}, err
	}
	return r, nil
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByClass removes all rooms for a class, used when a class is deleted.
func (s *Store) DeleteByClass(ctx context.Context, classID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"class_id": classID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// View converts a stored room document into the lifecycle value the
// breakout package evaluates.
func View(r models.BreakoutRoom) breakout.Room {
	return breakout.Room{
		ID:        r.ID,
		Members:   r.Members,
		Capacity:  r.Capacity,
		StartedAt: r.StartedAt,
		EndAt:     r.EndAt,
	}
}
