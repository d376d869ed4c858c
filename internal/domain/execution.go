package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetResult is one performed set inside an execution log.
type SetResult struct {
	SetNumber int    `bson:"setNumber" json:"setNumber"`
	Reps      int    `bson:"reps" json:"reps"`
	Load      string `bson:"load,omitempty" json:"load,omitempty"` // free text, e.g. "22.5kg"
}

// ExecutionLog records a student's actual performance against one
// PlanExercise on a given attempt. The student posts one log per exercise
// when completing a workout.
type ExecutionLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID      primitive.ObjectID `bson:"studentId" json:"studentId"`
	PlanExerciseID primitive.ObjectID `bson:"planExerciseId" json:"planExerciseId"`

	Sets  []SetResult `bson:"sets" json:"sets"`
	Notes string      `bson:"notes,omitempty" json:"notes,omitempty"`

	PerformedAt time.Time `bson:"performedAt" json:"performedAt"`
}
