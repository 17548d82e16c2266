// internal/domain/models/notification.go
package models

import "time"

// Notification is one entry in a user's dashboard notification feed.
// Delivery (push, email) is handled by external collaborators; this document
// only backs the in-app list and its unread badge.
type Notification struct {
	ID      string `bson:"_id" json:"id"` // app-minted UUID
	UserID  string `bson:"user_id" json:"user_id"`
	Kind    string `bson:"kind" json:"kind"` // e.g. "class_booked", "resource_shared"
	Message string `bson:"message" json:"message"`

	ClassID string `bson:"class_id,omitempty" json:"class_id,omitempty"`
	GroupID string `bson:"group_id,omitempty" json:"group_id,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
