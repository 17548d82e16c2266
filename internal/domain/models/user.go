// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students and tutors.
//
// NOTE:
//   - Authentication happens outside this service; user documents mirror the
//     identity the auth collaborator established. SessionUID is the external
//     session identifier, which is what class/group membership lists store.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionUID string             `bson:"session_uid" json:"session_uid"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"` // student | tutor

	NativeLanguage   string `bson:"native_language,omitempty" json:"native_language,omitempty"`
	LearningLanguage string `bson:"learning_language,omitempty" json:"learning_language,omitempty"`
	TimeZone         string `bson:"time_zone,omitempty" json:"time_zone,omitempty"`

	Status    string    `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
