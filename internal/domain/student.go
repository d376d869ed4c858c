package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is a person managed by a trainer. Removing a student flips the
// Active flag instead of deleting the row: deactivated students stay
// fetchable by ID but are excluded from active listings.
type Student struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Owning trainer

	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	BirthDate *time.Time `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Height    *float64   `bson:"height,omitempty" json:"height,omitempty"` // meters, e.g. 1.75
	Weight    *float64   `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Goal      string     `bson:"goal,omitempty" json:"goal,omitempty"`     // free text, e.g. "hypertrophy"
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Active    bool       `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
