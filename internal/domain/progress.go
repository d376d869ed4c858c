package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurements holds the optional body measurements of a progress record.
// An explicit struct rather than an open key/value map so the payload stays
// statically checkable.
type Measurements struct {
	Biceps *float64 `bson:"biceps,omitempty" json:"biceps,omitempty"` // cm
	Waist  *float64 `bson:"waist,omitempty" json:"waist,omitempty"`   // cm
	Thigh  *float64 `bson:"thigh,omitempty" json:"thigh,omitempty"`   // cm
	Chest  *float64 `bson:"chest,omitempty" json:"chest,omitempty"`   // cm
	Hips   *float64 `bson:"hips,omitempty" json:"hips,omitempty"`     // cm
}

// ProgressRecord is a dated snapshot of a student's body metrics, ordered by
// RecordDate for trend charts. PhotoObjectKey points at an optional progress
// photo in object storage; the key itself is never exposed via JSON.
type ProgressRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`

	RecordDate   time.Time     `bson:"recordDate" json:"recordDate"`
	Weight       *float64      `bson:"weight,omitempty" json:"weight,omitempty"`         // kg
	BodyFat      *float64      `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`       // percent
	MuscleMass   *float64      `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"` // kg
	Measurements *Measurements `bson:"measurements,omitempty" json:"measurements,omitempty"`
	Notes        string        `bson:"notes,omitempty" json:"notes,omitempty"`

	PhotoObjectKey string `bson:"photoObjectKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
