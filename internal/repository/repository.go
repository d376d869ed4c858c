package repository

import (
	"context"

	"evolvefit/coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with login accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// StudentRepository defines the interface for interacting with student data.
// Listings are scoped to the owning trainer and exclude deactivated rows;
// GetByID intentionally ignores the Active flag.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	ListActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error
}

// PlanRepository defines the interface for interacting with workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	ListActiveByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error
}

// PlanExerciseRepository defines the interface for the day/order slots of a
// plan. Delete is a true row delete, the only hard delete in the system.
type PlanExerciseRepository interface {
	Create(ctx context.Context, pe *domain.PlanExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExercise, error)
	ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error)
	Update(ctx context.Context, pe *domain.PlanExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for the shared exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// ProgressRepository defines the interface for progress records. Records are
// never deleted; corrections go through Update.
type ProgressRepository interface {
	Create(ctx context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.ProgressRecord, error)
	Update(ctx context.Context, record *domain.ProgressRecord) error
}

// ExecutionRepository defines the interface for workout execution logs.
type ExecutionRepository interface {
	Create(ctx context.Context, log *domain.ExecutionLog) (primitive.ObjectID, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.ExecutionLog, error)
	ListByPlanExercise(ctx context.Context, planExerciseID primitive.ObjectID) ([]domain.ExecutionLog, error)
}
