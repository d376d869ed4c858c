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
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentAccessDenied = errors.New("access denied to this student")
	ErrStudentValidation   = errors.New("student validation failed")
)

// StudentInput carries the mutable fields of a student. Numeric fields are
// pointers: nil means the optional form field was left empty.
type StudentInput struct {
	Name      string
	Email     string
	Phone     string
	BirthDate *time.Time
	Height    *float64
	Weight    *float64
	Goal      string
	Notes     string
}

// --- Service Interface ---
type StudentService interface {
	CreateStudent(ctx context.Context, trainerID primitive.ObjectID, input StudentInput) (*domain.Student, error)
	GetStudentByID(ctx context.Context, trainerID, studentID primitive.ObjectID) (*domain.Student, error)
	GetActiveStudents(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Student, error)
	UpdateStudent(ctx context.Context, trainerID, studentID primitive.ObjectID, input StudentInput) (*domain.Student, error)
	DeactivateStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) error
}

// --- Service Implementation ---

// studentService implements the StudentService interface.
type studentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(studentRepo repository.StudentRepository) StudentService {
	return &studentService{
		studentRepo: studentRepo,
	}
}

// CreateStudent handles the creation of a new student owned by a trainer.
func (s *studentService) CreateStudent(ctx context.Context, trainerID primitive.ObjectID, input StudentInput) (*domain.Student, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrStudentValidation
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create a student")
	}

	student := &domain.Student{
		TrainerID: trainerID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Height:    input.Height,
		Weight:    input.Weight,
		Goal:      input.Goal,
		Notes:     input.Notes,
	}
	if input.BirthDate != nil {
		t := input.BirthDate.UTC()
		student.BirthDate = &t
	}

	studentID, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	// Fetch again to return the repository-populated fields.
	return s.studentRepo.GetByID(ctx, studentID)
}

// GetStudentByID retrieves a single student, enforcing trainer ownership.
// Deactivated students are still returned here: soft delete only hides them
// from listings.
func (s *studentService) GetStudentByID(ctx context.Context, trainerID, studentID primitive.ObjectID) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.TrainerID != trainerID {
		return nil, ErrStudentAccessDenied
	}
	return student, nil
}

// GetActiveStudents retrieves the active students of a trainer, newest first.
func (s *studentService) GetActiveStudents(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Student, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.studentRepo.ListActiveByTrainer(ctx, trainerID)
}

// UpdateStudent handles updating an existing student, ensuring ownership.
func (s *studentService) UpdateStudent(ctx context.Context, trainerID, studentID primitive.ObjectID, input StudentInput) (*domain.Student, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrStudentValidation
	}

	existing, err := s.GetStudentByID(ctx, trainerID, studentID)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.Height = input.Height
	existing.Weight = input.Weight
	existing.Goal = input.Goal
	existing.Notes = input.Notes
	existing.BirthDate = nil
	if input.BirthDate != nil {
		t := input.BirthDate.UTC()
		existing.BirthDate = &t
	}

	if err := s.studentRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeactivateStudent flips the Active flag to false. The row is kept and
// remains fetchable by ID.
func (s *studentService) DeactivateStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) error {
	if trainerID == primitive.NilObjectID || studentID == primitive.NilObjectID {
		return errors.New("trainer ID and student ID are required")
	}

	err := s.studentRepo.SetActive(ctx, studentID, trainerID, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Not found OR owned by a different trainer; the repo filter
			// cannot tell the two apart.
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
