package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanLevel type for the skill level a plan targets
type PlanLevel string

const (
	LevelBeginner     PlanLevel = "beginner"
	LevelIntermediate PlanLevel = "intermediate"
	LevelAdvanced     PlanLevel = "advanced"
)

// WorkoutPlan is a workout program assigned to one student, spanning a
// duration in weeks with a weekly training-day count. Deletion is a soft
// Active flag, same lifecycle as Student.
type WorkoutPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized for easier query/auth

	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks int       `bson:"durationWeeks" json:"durationWeeks"`
	DaysPerWeek   int       `bson:"daysPerWeek" json:"daysPerWeek"`
	Level         PlanLevel `bson:"level" json:"level"`
	Active        bool      `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
