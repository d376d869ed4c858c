package service

import (
	"context"
	"testing"

	"evolvefit/coach-app/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	svc       PlanService
	trainerID primitive.ObjectID
	studentID primitive.ObjectID
	planID    primitive.ObjectID
	benchID   primitive.ObjectID
	squatID   primitive.ObjectID
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	ctx := context.Background()

	studentRepo := newFakeStudentRepo()
	planRepo := newFakePlanRepo()
	planExerciseRepo := newFakePlanExerciseRepo()
	exerciseRepo := newFakeExerciseRepo()

	trainerID := primitive.NewObjectID()
	studentID, err := studentRepo.Create(ctx, &domain.Student{
		TrainerID: trainerID,
		Name:      "Carlos Mota",
		Email:     "carlos@example.com",
	})
	require.NoError(t, err)

	benchID, err := exerciseRepo.Create(ctx, &domain.Exercise{Name: "Bench Press", MuscleGroup: "Chest"})
	require.NoError(t, err)
	squatID, err := exerciseRepo.Create(ctx, &domain.Exercise{Name: "Squat", MuscleGroup: "Legs"})
	require.NoError(t, err)

	svc := NewPlanService(planRepo, planExerciseRepo, exerciseRepo, studentRepo)
	plan, err := svc.CreatePlan(ctx, trainerID, PlanInput{
		StudentID:     studentID,
		Name:          "Hypertrophy block",
		DurationWeeks: 8,
		DaysPerWeek:   3,
		Level:         domain.LevelIntermediate,
	})
	require.NoError(t, err)

	return &planFixture{
		svc:       svc,
		trainerID: trainerID,
		studentID: studentID,
		planID:    plan.ID,
		benchID:   benchID,
		squatID:   squatID,
	}
}

func TestPlanService_DayTabsAreSortedDistinctDays(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	// Days added out of order, with a gap.
	for _, day := range []int{3, 1, 3} {
		_, err := f.svc.AddExerciseToPlan(ctx, f.trainerID, f.planID, PlanExerciseInput{
			ExerciseID: f.benchID,
			Day:        day,
			Order:      1,
			Sets:       3,
			Reps:       "8-12",
		})
		require.NoError(t, err)
	}

	days, err := f.svc.GetPlanDays(ctx, f.trainerID, f.planID)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, 1, days[0].Day)
	require.Equal(t, 3, days[1].Day)
	require.Len(t, days[0].Exercises, 1)
	require.Len(t, days[1].Exercises, 2)
}

func TestPlanService_EmptyPlanRendersDefaultDayOne(t *testing.T) {
	f := newPlanFixture(t)

	days, err := f.svc.GetPlanDays(context.Background(), f.trainerID, f.planID)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, 1, days[0].Day)
	require.Empty(t, days[0].Exercises)
}

func TestPlanService_ExercisesJoinCatalogEntries(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddExerciseToPlan(ctx, f.trainerID, f.planID, PlanExerciseInput{
		ExerciseID: f.squatID,
		Day:        1,
		Order:      1,
		Sets:       4,
		Reps:       "5",
	})
	require.NoError(t, err)

	details, err := f.svc.GetPlanExercises(ctx, f.trainerID, f.planID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Exercise)
	require.Equal(t, "Squat", details[0].Exercise.Name)
}

func TestPlanService_RemovePlanExerciseIsPermanent(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	pe, err := f.svc.AddExerciseToPlan(ctx, f.trainerID, f.planID, PlanExerciseInput{
		ExerciseID: f.benchID,
		Day:        2,
		Order:      1,
		Sets:       3,
		Reps:       "10",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemovePlanExercise(ctx, f.trainerID, pe.ID))

	details, err := f.svc.GetPlanExercises(ctx, f.trainerID, f.planID)
	require.NoError(t, err)
	require.Empty(t, details)

	// A second delete finds nothing: the row is gone, not flagged.
	err = f.svc.RemovePlanExercise(ctx, f.trainerID, pe.ID)
	require.ErrorIs(t, err, ErrPlanExerciseNotFound)
}

func TestPlanService_DeactivateHidesPlanFromListings(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeactivatePlan(ctx, f.trainerID, f.planID))

	plans, err := f.svc.GetActivePlans(ctx, f.trainerID)
	require.NoError(t, err)
	require.Empty(t, plans)

	// Direct fetch still works.
	plan, err := f.svc.GetPlanByID(ctx, f.trainerID, f.planID)
	require.NoError(t, err)
	require.False(t, plan.Active)
}

func TestPlanService_CreateRejectsUnownedStudent(t *testing.T) {
	f := newPlanFixture(t)

	_, err := f.svc.CreatePlan(context.Background(), primitive.NewObjectID(), PlanInput{
		StudentID:     f.studentID,
		Name:          "Sneaky plan",
		DurationWeeks: 4,
		DaysPerWeek:   3,
		Level:         domain.LevelBeginner,
	})
	require.ErrorIs(t, err, ErrStudentAccessDenied)
}
