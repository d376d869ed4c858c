package service

import (
	"context"
	"errors"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStudentProfileNotFound = errors.New("no student profile linked to this account")
	ErrExecutionValidation    = errors.New("execution log validation failed")
)

// SetEntry is one editable row of the execution input grid.
type SetEntry struct {
	SetNumber int    `json:"setNumber"`
	Reps      int    `json:"reps"`
	Load      string `json:"load"`
}

// ExecutionInput carries a completed exercise as posted by the student.
type ExecutionInput struct {
	Sets        []SetEntry
	Notes       string
	PerformedAt time.Time
}

// Dashboard is the student's landing view: their profile, active plans and
// the most recent progress snapshot.
type Dashboard struct {
	Student          *domain.Student        `json:"student"`
	ActivePlans      []domain.WorkoutPlan   `json:"activePlans"`
	LatestRecord     *domain.ProgressRecord `json:"latestRecord,omitempty"`
	RecentExecutions []domain.ExecutionLog  `json:"recentExecutions"`
}

// --- Service Interface ---

// PortalService serves the student-facing portal. Every operation resolves
// the caller's student row from the login email first; a trainer-created
// student with no matching account simply cannot log in to the portal.
type PortalService interface {
	GetDashboard(ctx context.Context, email string) (*Dashboard, error)
	GetMyPlans(ctx context.Context, email string) ([]domain.WorkoutPlan, error)
	GetMyPlanDays(ctx context.Context, email string, planID primitive.ObjectID) ([]PlanDay, error)
	GetMyProgress(ctx context.Context, email string) ([]domain.ProgressRecord, error)
	GetMyChartSeries(ctx context.Context, email string) ([]ChartPoint, error)

	// Execution logging
	BuildSetGrid(ctx context.Context, email string, planExerciseID primitive.ObjectID) ([]SetEntry, error)
	RecordExecution(ctx context.Context, email string, planExerciseID primitive.ObjectID, input ExecutionInput) (*domain.ExecutionLog, error)
	GetExecutionHistory(ctx context.Context, email string) ([]domain.ExecutionLog, error)
	GetExerciseExecutions(ctx context.Context, email string, planExerciseID primitive.ObjectID) ([]domain.ExecutionLog, error)
}

// --- Service Implementation ---

type portalService struct {
	studentRepo      repository.StudentRepository
	planRepo         repository.PlanRepository
	planExerciseRepo repository.PlanExerciseRepository
	exerciseRepo     repository.ExerciseRepository
	progressRepo     repository.ProgressRepository
	executionRepo    repository.ExecutionRepository
}

// NewPortalService creates a new instance of portalService.
func NewPortalService(
	studentRepo repository.StudentRepository,
	planRepo repository.PlanRepository,
	planExerciseRepo repository.PlanExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	progressRepo repository.ProgressRepository,
	executionRepo repository.ExecutionRepository,
) PortalService {
	return &portalService{
		studentRepo:      studentRepo,
		planRepo:         planRepo,
		planExerciseRepo: planExerciseRepo,
		exerciseRepo:     exerciseRepo,
		progressRepo:     progressRepo,
		executionRepo:    executionRepo,
	}
}

// resolveStudent maps a login email to the trainer-created student row. Only
// active students reach the portal; a deactivated student loses access along
// with visibility.
func (s *portalService) resolveStudent(ctx context.Context, email string) (*domain.Student, error) {
	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, err
	}
	return student, nil
}

// GetDashboard assembles the student's landing view.
func (s *portalService) GetDashboard(ctx context.Context, email string) (*Dashboard, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}

	plans, err := s.planRepo.ListActiveByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	records, err := s.progressRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	var latest *domain.ProgressRecord
	if len(records) > 0 {
		// Records come back ordered by record date ascending.
		latest = &records[len(records)-1]
	}

	executions, err := s.executionRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if len(executions) > 5 {
		executions = executions[:5]
	}

	return &Dashboard{
		Student:          student,
		ActivePlans:      plans,
		LatestRecord:     latest,
		RecentExecutions: executions,
	}, nil
}

// GetMyPlans lists the student's active workout plans.
func (s *portalService) GetMyPlans(ctx context.Context, email string) ([]domain.WorkoutPlan, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.planRepo.ListActiveByStudent(ctx, student.ID)
}

// GetMyPlanDays returns a plan's exercises grouped into day tabs, the same
// grouping the trainer sees.
func (s *portalService) GetMyPlanDays(ctx context.Context, email string, planID primitive.ObjectID) ([]PlanDay, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}

	plan, err := s.getOwnPlan(ctx, student, planID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.planExerciseRepo.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	details := make([]PlanExerciseDetails, 0, len(exercises))
	for _, pe := range exercises {
		d := PlanExerciseDetails{PlanExercise: pe}
		if ex, err := s.exerciseRepo.GetByID(ctx, pe.ExerciseID); err == nil {
			d.Exercise = ex
		}
		details = append(details, d)
	}
	return GroupExercisesByDay(details), nil
}

// GetMyProgress returns the student's progress records ordered by record date.
func (s *portalService) GetMyProgress(ctx context.Context, email string) ([]domain.ProgressRecord, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.ListByStudent(ctx, student.ID)
}

// GetMyChartSeries returns the student's progress pivoted into chart points.
func (s *portalService) GetMyChartSeries(ctx context.Context, email string) ([]ChartPoint, error) {
	records, err := s.GetMyProgress(ctx, email)
	if err != nil {
		return nil, err
	}
	return BuildChartSeries(records), nil
}

// === Execution Logging ===

// BuildSetGrid prepares the per-set input rows for an exercise: one entry per
// prescribed set, set numbers prefilled, reps and load left for the student.
func (s *portalService) BuildSetGrid(ctx context.Context, email string, planExerciseID primitive.ObjectID) ([]SetEntry, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}

	pe, err := s.getOwnPlanExercise(ctx, student, planExerciseID)
	if err != nil {
		return nil, err
	}

	grid := make([]SetEntry, 0, pe.Sets)
	for i := 1; i <= pe.Sets; i++ {
		grid = append(grid, SetEntry{SetNumber: i, Load: pe.Load})
	}
	return grid, nil
}

// RecordExecution appends one execution log for an exercise the student just
// performed. Logs are append-only; there is no edit or delete.
func (s *portalService) RecordExecution(ctx context.Context, email string, planExerciseID primitive.ObjectID, input ExecutionInput) (*domain.ExecutionLog, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.getOwnPlanExercise(ctx, student, planExerciseID); err != nil {
		return nil, err
	}
	if len(input.Sets) == 0 {
		return nil, ErrExecutionValidation
	}

	sets := make([]domain.SetResult, 0, len(input.Sets))
	for i, entry := range input.Sets {
		setNumber := entry.SetNumber
		if setNumber == 0 {
			setNumber = i + 1
		}
		if entry.Reps < 0 {
			return nil, ErrExecutionValidation
		}
		sets = append(sets, domain.SetResult{
			SetNumber: setNumber,
			Reps:      entry.Reps,
			Load:      entry.Load,
		})
	}

	entry := &domain.ExecutionLog{
		StudentID:      student.ID,
		PlanExerciseID: planExerciseID,
		Sets:           sets,
		Notes:          input.Notes,
		PerformedAt:    input.PerformedAt,
	}

	logID, err := s.executionRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = logID
	return entry, nil
}

// GetExecutionHistory lists the student's execution logs, newest first.
func (s *portalService) GetExecutionHistory(ctx context.Context, email string) ([]domain.ExecutionLog, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.executionRepo.ListByStudent(ctx, student.ID)
}

// GetExerciseExecutions lists the student's past logs for one plan exercise,
// newest first, so the execution grid can show what was lifted last time.
func (s *portalService) GetExerciseExecutions(ctx context.Context, email string, planExerciseID primitive.ObjectID) ([]domain.ExecutionLog, error) {
	student, err := s.resolveStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.getOwnPlanExercise(ctx, student, planExerciseID); err != nil {
		return nil, err
	}
	return s.executionRepo.ListByPlanExercise(ctx, planExerciseID)
}

// getOwnPlan loads a plan if it belongs to this student and is still active.
func (s *portalService) getOwnPlan(ctx context.Context, student *domain.Student, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.StudentID != student.ID || !plan.Active {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// getOwnPlanExercise verifies a plan exercise reaches this student through
// one of their plans.
func (s *portalService) getOwnPlanExercise(ctx context.Context, student *domain.Student, planExerciseID primitive.ObjectID) (*domain.PlanExercise, error) {
	pe, err := s.planExerciseRepo.GetByID(ctx, planExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}
	if _, err := s.getOwnPlan(ctx, student, pe.PlanID); err != nil {
		return nil, err
	}
	return pe, nil
}
