package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStudentService_CreateAndList(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo)
	trainerID := primitive.NewObjectID()
	ctx := context.Background()

	height := 1.75
	weight := 70.0
	student, err := svc.CreateStudent(ctx, trainerID, StudentInput{
		Name:   "Maria Silva",
		Email:  "maria@example.com",
		Height: &height,
		Weight: &weight,
		Goal:   "hypertrophy",
	})
	require.NoError(t, err)
	require.True(t, student.Active)
	require.Equal(t, trainerID, student.TrainerID)
	require.NotNil(t, student.Height)
	require.Equal(t, 1.75, *student.Height)
	require.Equal(t, 70.0, *student.Weight)

	students, err := svc.GetActiveStudents(ctx, trainerID)
	require.NoError(t, err)
	require.Len(t, students, 1)
}

func TestStudentService_DeactivateKeepsFetchableByID(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo)
	trainerID := primitive.NewObjectID()
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, trainerID, StudentInput{
		Name:  "João Souza",
		Email: "joao@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateStudent(ctx, trainerID, student.ID))

	// Gone from the active listing.
	students, err := svc.GetActiveStudents(ctx, trainerID)
	require.NoError(t, err)
	require.Empty(t, students)

	// Still fetchable by direct ID.
	fetched, err := svc.GetStudentByID(ctx, trainerID, student.ID)
	require.NoError(t, err)
	require.False(t, fetched.Active)
	require.Equal(t, "João Souza", fetched.Name)
}

func TestStudentService_OwnershipEnforced(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo)
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, ownerID, StudentInput{
		Name:  "Ana Lima",
		Email: "ana@example.com",
	})
	require.NoError(t, err)

	_, err = svc.GetStudentByID(ctx, otherID, student.ID)
	require.ErrorIs(t, err, ErrStudentAccessDenied)

	err = svc.DeactivateStudent(ctx, otherID, student.ID)
	require.Error(t, err)
}

func TestStudentService_ValidationRejectsMissingFields(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	_, err := svc.CreateStudent(context.Background(), primitive.NewObjectID(), StudentInput{Name: "No Email"})
	require.ErrorIs(t, err, ErrStudentValidation)
}
