// internal/domain/models/breakoutroom.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BreakoutRoom is an ephemeral sub-session spawned from a live class.
//
// Rooms are owned by the class session: when the session ends the whole set
// is purged. IDs are app-minted UUID strings, not ObjectIDs, because rooms
// are created in bulk at session time and referenced by the realtime layer
// before they are ever persisted.
type BreakoutRoom struct {
	ID      string             `bson:"_id" json:"id"`
	ClassID primitive.ObjectID `bson:"class_id" json:"class_id"`
	Name    string             `bson:"name" json:"name"`

	Members  []string `bson:"members,omitempty" json:"members,omitempty"`
	Capacity int      `bson:"capacity" json:"capacity"`

	DurationMinutes int        `bson:"duration_minutes" json:"duration_minutes"`
	StartedAt       *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	EndAt           *time.Time `bson:"end_at,omitempty" json:"end_at,omitempty"`

	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
