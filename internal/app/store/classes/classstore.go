// internal/app/store/classes/classstore.go
package classstore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateClassName = errors.New("a class with this name already exists in the group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("classes")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Class, error) {
	var c models.Class
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Class{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Class) (models.Class, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	if c.Status == "" {
		c.Status = status.Active
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Class{}, ErrDuplicateClassName
		}
		return models.Class{}, err
	}
	return c, nil
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string, scheduledAt *time.Time, durationMinutes int) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	// Description can be cleared (set to empty)
	set["description"] = desc
	if scheduledAt != nil {
		set["scheduled_at"] = scheduledAt.UTC()
	}
	if durationMinutes > 0 {
		set["duration_minutes"] = durationMinutes
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateClassName
		}
		return err
	}
	return nil
}

// ReplaceSlots swaps the precomputed occurrence list for a repeating class.
// Slots are written in the normalized {occurs_at} shape regardless of what
// shape the document carried before.
func (s *Store) ReplaceSlots(ctx context.Context, id primitive.ObjectID, slots []models.RecurringSlot) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"recurring_slots": slots,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// Join adds a user to the member list. The store mutates blindly; capacity
// and eligibility are the caller's decision, made against a snapshot.
func (s *Store) Join(ctx context.Context, id primitive.ObjectID, userID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) Leave(ctx context.Context, id primitive.ObjectID, userID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// repeatingKinds are the stored recurrence values whose placement comes from
// slots rather than scheduled_at. $in matches both the bare-string and the
// legacy one-element-array document shapes, since Mongo matches array fields
// element-wise.
var repeatingKinds = []string{"daily", "daily_weekdays", "weekly", "monthly"}

// ListBetween fetches the candidate classes for a calendar window: anything
// scheduled inside [from, to] plus every repeating class, whose slots decide
// placement in memory.
func (s *Store) ListBetween(ctx context.Context, from, to time.Time) ([]models.Class, error) {
	filter := bson.M{
		"status": status.Active,
		"$or": []bson.M{
			{"scheduled_at": bson.M{"$gte": from, "$lte": to}},
			{"recurrence": bson.M{"$in": repeatingKinds}},
		},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Class
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByGroup returns one page of a group's classes ordered by folded name,
// with an opaque resume cursor.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, after string, limit int64) ([]models.Class, string, error) {
	if limit <= 0 {
		limit = 25
	}
	filter := bson.M{"group_id": groupID}
	if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			filter["$or"] = []bson.M{
				{"name_ci": bson.M{"$gt": c.CI}},
				{"name_ci": c.CI, "_id": bson.M{"$gt": c.ID}},
			}
		}
	}

	find := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, "", err
	}
	defer cur.Close(ctx)

	var rows []models.Class
	if err := cur.All(ctx, &rows); err != nil {
		return nil, "", err
	}

	next := ""
	if int64(len(rows)) == limit {
		last := rows[len(rows)-1]
		next = wafflemongo.EncodeCursor(last.NameCI, last.ID)
	}
	return rows, next, nil
}

// StandingFor returns the class IDs for which the user holds admin and tutor
// standing. These feed the breakout-room permission context.
func (s *Store) StandingFor(ctx context.Context, userID string) (adminIDs, tutorIDs []string, err error) {
	cur, err := s.c.Find(ctx,
		bson.M{"$or": []bson.M{{"admin_ids": userID}, {"tutor_id": userID}}},
		options.Find().SetProjection(bson.M{"_id": 1, "admin_ids": 1, "tutor_id": 1}))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID       primitive.ObjectID `bson:"_id"`
			AdminIDs []string           `bson:"admin_ids"`
			TutorID  string             `bson:"tutor_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, nil, err
		}
		hex := row.ID.Hex()
		if row.TutorID == userID {
			tutorIDs = append(tutorIDs, hex)
		}
		for _, a := range row.AdminIDs {
			if a == userID {
				adminIDs = append(adminIDs, hex)
				break
			}
		}
	}
	return adminIDs, tutorIDs, cur.Err()
}

// Delete removes a class by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all classes belonging to a group.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
