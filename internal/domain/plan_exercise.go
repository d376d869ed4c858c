package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExercise places one catalog exercise into a specific day/order slot of
// a plan with prescribed sets, reps and rest. This is the only entity that is
// hard-deleted; everything else uses a soft Active flag.
//
// (Plan, Day, Order) is not enforced unique: order values assigned by the
// trainer can collide or gap, and listings fall back to creation time to keep
// display order deterministic.
type PlanExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"` // Catalog entry reference

	Day         int    `bson:"day" json:"day"`     // Training day number, 1..DaysPerWeek
	Order       int    `bson:"order" json:"order"` // Position within the day
	Sets        int    `bson:"sets" json:"sets"`
	Reps        string `bson:"reps" json:"reps"`                     // free text, e.g. "8-12"
	Load        string `bson:"load,omitempty" json:"load,omitempty"` // free text, e.g. "20kg" or "bodyweight"
	RestSeconds int    `bson:"restSeconds" json:"restSeconds"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
