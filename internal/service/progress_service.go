package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"
	"evolvefit/coach-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgressNotFound   = errors.New("progress record not found")
	ErrProgressValidation = errors.New("progress record validation failed")
	ErrPhotoURLError      = errors.New("failed to generate photo URL")
	ErrPhotoMissing       = errors.New("progress record has no photo")
)

// ProgressInput carries the mutable fields of a progress record. Numeric
// fields are pointers: nil means the optional form field was left empty.
type ProgressInput struct {
	RecordDate   time.Time
	Weight       *float64
	BodyFat      *float64
	MuscleMass   *float64
	Measurements *domain.Measurements
	Notes        string
}

// ChartPoint is one date-keyed flat record of the trend chart series.
type ChartPoint struct {
	Date       string   `json:"date"` // formatted record date
	Weight     *float64 `json:"weight,omitempty"`
	BodyFat    *float64 `json:"bodyFat,omitempty"`
	MuscleMass *float64 `json:"muscleMass,omitempty"`
}

// PhotoUploadResponse returns the presigned URL and the object key the client
// reports back on confirm.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---

// ProgressService manages the body-metrics history of a student. Rows are
// corrected in place, never removed; only plan-exercise slots have a hard
// delete in this system.
type ProgressService interface {
	CreateRecord(ctx context.Context, trainerID, studentID primitive.ObjectID, input ProgressInput) (*domain.ProgressRecord, error)
	GetRecords(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]domain.ProgressRecord, error)
	UpdateRecord(ctx context.Context, trainerID, recordID primitive.ObjectID, input ProgressInput) (*domain.ProgressRecord, error)

	// Chart series
	GetChartSeries(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]ChartPoint, error)

	// Progress photos
	RequestPhotoUploadURL(ctx context.Context, trainerID, recordID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
	ConfirmPhoto(ctx context.Context, trainerID, recordID primitive.ObjectID, objectKey string) (*domain.ProgressRecord, error)
	GetPhotoDownloadURL(ctx context.Context, trainerID, recordID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo repository.ProgressRepository
	studentRepo  repository.StudentRepository
	fileStorage  storage.FileStorage
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	studentRepo repository.StudentRepository,
	fileStorage storage.FileStorage,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		studentRepo:  studentRepo,
		fileStorage:  fileStorage,
	}
}

// CreateRecord adds a dated body-metrics snapshot for a student of this trainer.
func (s *progressService) CreateRecord(ctx context.Context, trainerID, studentID primitive.ObjectID, input ProgressInput) (*domain.ProgressRecord, error) {
	if input.RecordDate.IsZero() {
		return nil, ErrProgressValidation
	}

	// Verify the student belongs to this trainer.
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

	record := &domain.ProgressRecord{
		StudentID:    studentID,
		RecordDate:   input.RecordDate.UTC(),
		Weight:       input.Weight,
		BodyFat:      input.BodyFat,
		MuscleMass:   input.MuscleMass,
		Measurements: input.Measurements,
		Notes:        input.Notes,
	}

	recordID, err := s.progressRepo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.GetByID(ctx, recordID)
}

// GetRecords retrieves a student's progress records ordered by record date.
func (s *progressService) GetRecords(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]domain.ProgressRecord, error) {
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
	return s.progressRepo.ListByStudent(ctx, studentID)
}

// UpdateRecord handles updating an existing progress record.
func (s *progressService) UpdateRecord(ctx context.Context, trainerID, recordID primitive.ObjectID, input ProgressInput) (*domain.ProgressRecord, error) {
	record, err := s.getOwnedRecord(ctx, trainerID, recordID)
	if err != nil {
		return nil, err
	}
	if input.RecordDate.IsZero() {
		return nil, ErrProgressValidation
	}

	record.RecordDate = input.RecordDate.UTC()
	record.Weight = input.Weight
	record.BodyFat = input.BodyFat
	record.MuscleMass = input.MuscleMass
	record.Measurements = input.Measurements
	record.Notes = input.Notes

	if err := s.progressRepo.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return record, nil
}

// === Chart Series ===

// GetChartSeries pivots a student's progress records into date-keyed flat
// points ready for a line chart.
func (s *progressService) GetChartSeries(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]ChartPoint, error) {
	records, err := s.GetRecords(ctx, trainerID, studentID)
	if err != nil {
		return nil, err
	}
	return BuildChartSeries(records), nil
}

// BuildChartSeries transforms records (already ordered by record date) into
// chart points. Records sharing a date collapse into one point, later rows
// winning per metric, so the series stays keyed by date.
func BuildChartSeries(records []domain.ProgressRecord) []ChartPoint {
	points := []ChartPoint{}
	index := map[string]int{}

	for _, r := range records {
		date := r.RecordDate.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			points = append(points, ChartPoint{Date: date})
			i = len(points) - 1
			index[date] = i
		}
		if r.Weight != nil {
			points[i].Weight = r.Weight
		}
		if r.BodyFat != nil {
			points[i].BodyFat = r.BodyFat
		}
		if r.MuscleMass != nil {
			points[i].MuscleMass = r.MuscleMass
		}
	}
	return points
}

// === Progress Photos ===

// RequestPhotoUploadURL generates a presigned URL for attaching a photo to a
// progress record.
func (s *progressService) RequestPhotoUploadURL(ctx context.Context, trainerID, recordID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	record, err := s.getOwnedRecord(ctx, trainerID, recordID)
	if err != nil {
		return nil, err
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("progress-photos", record.StudentID.Hex(), recordID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrPhotoURLError
	}

	return &PhotoUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhoto stores the object key on the record. Called after the client
// has successfully PUT the photo to the presigned URL.
func (s *progressService) ConfirmPhoto(ctx context.Context, trainerID, recordID primitive.ObjectID, objectKey string) (*domain.ProgressRecord, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	record, err := s.getOwnedRecord(ctx, trainerID, recordID)
	if err != nil {
		return nil, err
	}

	previousKey := record.PhotoObjectKey
	record.PhotoObjectKey = objectKey
	if err := s.progressRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	// Replace semantics: drop the previous photo object, best effort.
	if previousKey != "" && previousKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}
	return record, nil
}

// GetPhotoDownloadURL generates a temporary URL for viewing a record's photo.
func (s *progressService) GetPhotoDownloadURL(ctx context.Context, trainerID, recordID primitive.ObjectID) (string, error) {
	record, err := s.getOwnedRecord(ctx, trainerID, recordID)
	if err != nil {
		return "", err
	}
	if record.PhotoObjectKey == "" {
		return "", ErrPhotoMissing
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, record.PhotoObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrPhotoURLError
	}
	return downloadURL, nil
}

func (s *progressService) getOwnedRecord(ctx context.Context, trainerID, recordID primitive.ObjectID) (*domain.ProgressRecord, error) {
	record, err := s.progressRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	// Ownership travels through the student row.
	student, err := s.studentRepo.GetByID(ctx, record.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.TrainerID != trainerID {
		return nil, ErrStudentAccessDenied
	}
	return record, nil
}
