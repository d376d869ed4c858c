package service

import (
	"context"
	"errors"
	"sort"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound         = errors.New("workout plan not found")
	ErrPlanAccessDenied     = errors.New("access denied to this workout plan")
	ErrPlanValidation       = errors.New("workout plan validation failed")
	ErrPlanExerciseNotFound = errors.New("plan exercise not found")
	ErrExerciseNotFound     = errors.New("exercise not found")
)

// PlanInput carries the mutable fields of a workout plan.
type PlanInput struct {
	Name          string
	Description   string
	DurationWeeks int
	DaysPerWeek   int
	Level         domain.PlanLevel
	StudentID     primitive.ObjectID
}

// PlanExerciseInput carries the mutable fields of a plan exercise slot.
type PlanExerciseInput struct {
	ExerciseID  primitive.ObjectID
	Day         int
	Order       int
	Sets        int
	Reps        string
	Load        string
	RestSeconds int
	Notes       string
}

// PlanExerciseDetails enriches a plan exercise with its catalog entry.
// The catalog row is fetched in a second round-trip and joined here.
type PlanExerciseDetails struct {
	domain.PlanExercise
	Exercise *domain.Exercise `json:"exercise,omitempty"`
}

// PlanDay groups the exercises of one training day.
type PlanDay struct {
	Day       int                   `json:"day"`
	Exercises []PlanExerciseDetails `json:"exercises"`
}

// --- Service Interface ---
type PlanService interface {
	// Plan management
	CreatePlan(ctx context.Context, trainerID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	GetPlanByID(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetActivePlans(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	DeactivatePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error

	// Plan exercise management
	AddExerciseToPlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanExerciseInput) (*domain.PlanExercise, error)
	GetPlanExercises(ctx context.Context, trainerID, planID primitive.ObjectID) ([]PlanExerciseDetails, error)
	GetPlanDays(ctx context.Context, trainerID, planID primitive.ObjectID) ([]PlanDay, error)
	UpdatePlanExercise(ctx context.Context, trainerID, planExerciseID primitive.ObjectID, input PlanExerciseInput) (*domain.PlanExercise, error)
	RemovePlanExercise(ctx context.Context, trainerID, planExerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo         repository.PlanRepository
	planExerciseRepo repository.PlanExerciseRepository
	exerciseRepo     repository.ExerciseRepository
	studentRepo      repository.StudentRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	planExerciseRepo repository.PlanExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	studentRepo repository.StudentRepository,
) PlanService {
	return &planService{
		planRepo:         planRepo,
		planExerciseRepo: planExerciseRepo,
		exerciseRepo:     exerciseRepo,
		studentRepo:      studentRepo,
	}
}

// === Plan Management ===

// CreatePlan creates a workout plan for a student of this trainer.
func (s *planService) CreatePlan(ctx context.Context, trainerID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if input.Name == "" || input.StudentID == primitive.NilObjectID {
		return nil, ErrPlanValidation
	}
	if input.DurationWeeks < 1 || input.DaysPerWeek < 1 || input.DaysPerWeek > 7 {
		return nil, ErrPlanValidation
	}
	switch input.Level {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced:
	default:
		return nil, ErrPlanValidation
	}

	// Verify the target student belongs to this trainer.
	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.TrainerID != trainerID {
		return nil, ErrStudentAccessDenied
	}

	plan := &domain.WorkoutPlan{
		StudentID:     input.StudentID,
		TrainerID:     trainerID,
		Name:          input.Name,
		Description:   input.Description,
		DurationWeeks: input.DurationWeeks,
		DaysPerWeek:   input.DaysPerWeek,
		Level:         input.Level,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, planID)
}

// GetPlanByID retrieves a single plan, enforcing trainer ownership.
func (s *planService) GetPlanByID(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetActivePlans retrieves the active plans of a trainer, newest first.
func (s *planService) GetActivePlans(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.planRepo.ListActiveByTrainer(ctx, trainerID)
}

// UpdatePlan handles updating an existing plan, ensuring ownership.
func (s *planService) UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if input.Name == "" {
		return nil, ErrPlanValidation
	}

	existing, err := s.GetPlanByID(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.DurationWeeks = input.DurationWeeks
	existing.DaysPerWeek = input.DaysPerWeek
	existing.Level = input.Level
	if input.StudentID != primitive.NilObjectID {
		existing.StudentID = input.StudentID
	}

	if err := s.planRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeactivatePlan flips the Active flag to false; the plan and its exercises
// are kept.
func (s *planService) DeactivatePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	err := s.planRepo.SetActive(ctx, planID, trainerID, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// === Plan Exercise Management ===

// AddExerciseToPlan places a catalog exercise into a day/order slot of the plan.
func (s *planService) AddExerciseToPlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanExerciseInput) (*domain.PlanExercise, error) {
	// Verify plan ownership first.
	if _, err := s.GetPlanByID(ctx, trainerID, planID); err != nil {
		return nil, err
	}

	// Verify the catalog entry exists.
	if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if input.Day < 1 || input.Sets < 1 || input.Reps == "" {
		return nil, ErrPlanValidation
	}

	pe := &domain.PlanExercise{
		PlanID:      planID,
		ExerciseID:  input.ExerciseID,
		Day:         input.Day,
		Order:       input.Order,
		Sets:        input.Sets,
		Reps:        input.Reps,
		Load:        input.Load,
		RestSeconds: input.RestSeconds,
		Notes:       input.Notes,
	}

	peID, err := s.planExerciseRepo.Create(ctx, pe)
	if err != nil {
		return nil, err
	}
	pe.ID = peID
	return pe, nil
}

// GetPlanExercises retrieves the exercises of a plan ordered by day then
// order, each enriched with its catalog entry in a second round-trip.
func (s *planService) GetPlanExercises(ctx context.Context, trainerID, planID primitive.ObjectID) ([]PlanExerciseDetails, error) {
	if _, err := s.GetPlanByID(ctx, trainerID, planID); err != nil {
		return nil, err
	}
	return s.loadPlanExercises(ctx, planID)
}

func (s *planService) loadPlanExercises(ctx context.Context, planID primitive.ObjectID) ([]PlanExerciseDetails, error) {
	exercises, err := s.planExerciseRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	details := make([]PlanExerciseDetails, 0, len(exercises))
	for _, pe := range exercises {
		d := PlanExerciseDetails{PlanExercise: pe}
		// Missing catalog rows leave Exercise nil instead of failing the listing.
		if ex, err := s.exerciseRepo.GetByID(ctx, pe.ExerciseID); err == nil {
			d.Exercise = ex
		}
		details = append(details, d)
	}
	return details, nil
}

// GetPlanDays groups a plan's exercises into day tabs. The set of days equals
// the sorted distinct day values among the plan's exercises; a plan with no
// exercises yet renders a single empty "day 1" tab.
func (s *planService) GetPlanDays(ctx context.Context, trainerID, planID primitive.ObjectID) ([]PlanDay, error) {
	details, err := s.GetPlanExercises(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	return GroupExercisesByDay(details), nil
}

// GroupExercisesByDay pivots a (day, order)-sorted exercise listing into day
// groups. Exported for the student portal, which renders the same tabs.
func GroupExercisesByDay(details []PlanExerciseDetails) []PlanDay {
	if len(details) == 0 {
		return []PlanDay{{Day: 1, Exercises: []PlanExerciseDetails{}}}
	}

	byDay := map[int][]PlanExerciseDetails{}
	for _, d := range details {
		byDay[d.Day] = append(byDay[d.Day], d)
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	result := make([]PlanDay, 0, len(days))
	for _, day := range days {
		result = append(result, PlanDay{Day: day, Exercises: byDay[day]})
	}
	return result
}

// UpdatePlanExercise handles updating a plan exercise slot, ensuring the
// trainer owns the enclosing plan.
func (s *planService) UpdatePlanExercise(ctx context.Context, trainerID, planExerciseID primitive.ObjectID, input PlanExerciseInput) (*domain.PlanExercise, error) {
	pe, err := s.getOwnedPlanExercise(ctx, trainerID, planExerciseID)
	if err != nil {
		return nil, err
	}

	if input.Day < 1 || input.Sets < 1 || input.Reps == "" {
		return nil, ErrPlanValidation
	}
	if input.ExerciseID != primitive.NilObjectID {
		pe.ExerciseID = input.ExerciseID
	}
	pe.Day = input.Day
	pe.Order = input.Order
	pe.Sets = input.Sets
	pe.Reps = input.Reps
	pe.Load = input.Load
	pe.RestSeconds = input.RestSeconds
	pe.Notes = input.Notes

	if err := s.planExerciseRepo.Update(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}
	return pe, nil
}

// RemovePlanExercise deletes a plan exercise permanently; the only hard
// delete in the system.
func (s *planService) RemovePlanExercise(ctx context.Context, trainerID, planExerciseID primitive.ObjectID) error {
	if _, err := s.getOwnedPlanExercise(ctx, trainerID, planExerciseID); err != nil {
		return err
	}

	err := s.planExerciseRepo.Delete(ctx, planExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *planService) getOwnedPlanExercise(ctx context.Context, trainerID, planExerciseID primitive.ObjectID) (*domain.PlanExercise, error) {
	pe, err := s.planExerciseRepo.GetByID(ctx, planExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}
	// Ownership travels through the enclosing plan.
	if _, err := s.GetPlanByID(ctx, trainerID, pe.PlanID); err != nil {
		return nil, err
	}
	return pe, nil
}
