// internal/domain/models/class.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class is a bookable class inside a group, taught by a tutor.
//
// NOTE:
//   - ScheduledAt is nil for "TBD" classes that have not been scheduled yet.
//   - Recurrence and RecurringSlots tolerate the two legacy document shapes
//     each (see their unmarshalers below); everything downstream of decoding
//     sees one normalized form.
//   - MemberIDs holds session user IDs as strings, not ObjectIDs, because
//     enrollment snapshots come from the session collaborator.
type Class struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`

	Language string `bson:"language,omitempty" json:"language,omitempty"` // e.g. "Spanish", "English"
	Level    string `bson:"level,omitempty" json:"level,omitempty"`       // e.g. "Beginner", "B2"

	TutorID  string   `bson:"tutor_id,omitempty" json:"tutor_id,omitempty"`
	AdminIDs []string `bson:"admin_ids,omitempty" json:"admin_ids,omitempty"`

	ScheduledAt     *time.Time      `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	DurationMinutes int             `bson:"duration_minutes" json:"duration_minutes"`
	Recurrence      RecurrenceValue `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	RecurringSlots  []RecurringSlot `bson:"recurring_slots,omitempty" json:"recurring_slots,omitempty"`

	MemberIDs []string `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	Capacity  int      `bson:"capacity" json:"capacity"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RecurrenceValue is the stored recurrence kind. Legacy writers stored either
// a bare string ("weekly") or a one-element array (["weekly"]); both decode
// to the string, and anything else decodes to empty. New documents are always
// written as a bare string.
type RecurrenceValue string

// UnmarshalBSONValue accepts the two legacy shapes.
func (v *RecurrenceValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = RecurrenceValue(rv.StringValue())
	case bsontype.Array:
		var items []string
		if err := rv.Unmarshal(&items); err == nil && len(items) > 0 {
			*v = RecurrenceValue(items[0])
		} else {
			*v = ""
		}
	default:
		*v = ""
	}
	return nil
}

// MarshalBSONValue always writes the normalized bare-string form.
func (v RecurrenceValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(v))
}

// RecurringSlot is one precomputed future occurrence of a repeating class.
// Legacy writers stored slots either as bare timestamps or as documents
// keyed created_at (older) / occurs_at (newer); all three decode to At.
// New documents are written as {occurs_at: ...}.
type RecurringSlot struct {
	At time.Time `json:"at"`
}

// UnmarshalBSONValue accepts the legacy slot shapes. An unrecognized shape
// leaves At zero rather than failing the whole document decode.
func (s *RecurringSlot) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		s.At = rv.Time()
	case bsontype.EmbeddedDocument:
		var doc struct {
			OccursAt  *time.Time `bson:"occurs_at"`
			CreatedAt *time.Time `bson:"created_at"`
		}
		if err := rv.Unmarshal(&doc); err != nil {
			return nil
		}
		if doc.OccursAt != nil {
			s.At = *doc.OccursAt
		} else if doc.CreatedAt != nil {
			s.At = *doc.CreatedAt
		}
	}
	return nil
}

// MarshalBSONValue writes the normalized document form.
func (s RecurringSlot) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(bson.M{"occurs_at": s.At.UTC()})
}
