// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a learning community that classes belong to. Standard groups are
// student-run (AdminID is the founding student); premium groups are led by a
// tutor.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Language string `bson:"language,omitempty" json:"language,omitempty"`
	Premium  bool   `bson:"premium" json:"premium"`

	AdminID   string   `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	TutorID   string   `bson:"tutor_id,omitempty" json:"tutor_id,omitempty"`
	MemberIDs []string `bson:"member_ids,omitempty" json:"member_ids,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
