package service

import (
	"context"
	"errors"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseValidation = errors.New("exercise validation failed")
)

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, name, muscleGroup, equipment, instructions string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, name, muscleGroup, equipment, instructions string) (*domain.Exercise, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface for the shared
// catalog. Catalog entries are reference data: any trainer may create and
// edit them, and there is no delete (plans may reference any entry).
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateExercise adds a new entry to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, name, muscleGroup, equipment, instructions string) (*domain.Exercise, error) {
	if name == "" || muscleGroup == "" {
		return nil, ErrExerciseValidation
	}

	exercise := &domain.Exercise{
		Name:         name,
		MuscleGroup:  muscleGroup,
		Equipment:    equipment,
		Instructions: instructions,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single catalog entry.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercises retrieves the whole catalog ordered by name.
func (s *exerciseService) GetExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// UpdateExercise handles updating an existing catalog entry.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, name, muscleGroup, equipment, instructions string) (*domain.Exercise, error) {
	if name == "" || muscleGroup == "" {
		return nil, ErrExerciseValidation
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = name
	existing.MuscleGroup = muscleGroup
	existing.Equipment = equipment
	existing.Instructions = instructions

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}
