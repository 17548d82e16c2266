// internal/domain/models/resource.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a shared learning material (document, recording, link)
// uploaded by a tutor or group admin. The file bytes live in the object
// storage collaborator; this document carries the metadata the dashboard
// lists.
type Resource struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Type    string              `bson:"type" json:"type"` // "document" | "recording" | "link"
	FileURL string              `bson:"file_url,omitempty" json:"file_url,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
