package service

import (
	"context"
	"testing"
	"time"

	"evolvefit/coach-app/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFileStorage struct {
	uploadURL   string
	downloadURL string
	deletedKeys []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return f.uploadURL + "/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return f.downloadURL + "/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

type progressFixture struct {
	svc       ProgressService
	storage   *fakeFileStorage
	trainerID primitive.ObjectID
	studentID primitive.ObjectID
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	ctx := context.Background()

	studentRepo := newFakeStudentRepo()
	trainerID := primitive.NewObjectID()
	studentID, err := studentRepo.Create(ctx, &domain.Student{
		TrainerID: trainerID,
		Name:      "Paula Reis",
		Email:     "paula@example.com",
	})
	require.NoError(t, err)

	fs := &fakeFileStorage{uploadURL: "https://s3.test/upload", downloadURL: "https://s3.test/download"}
	return &progressFixture{
		svc:       NewProgressService(newFakeProgressRepo(), studentRepo, fs),
		storage:   fs,
		trainerID: trainerID,
		studentID: studentID,
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProgressService_RecordsOrderedByDate(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	w1, w2 := 82.0, 80.5
	for _, in := range []ProgressInput{
		{RecordDate: date("2026-03-01"), Weight: &w2},
		{RecordDate: date("2026-01-15"), Weight: &w1},
	} {
		_, err := f.svc.CreateRecord(ctx, f.trainerID, f.studentID, in)
		require.NoError(t, err)
	}

	records, err := f.svc.GetRecords(ctx, f.trainerID, f.studentID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, date("2026-01-15").UTC(), records[0].RecordDate)
	require.Equal(t, date("2026-03-01").UTC(), records[1].RecordDate)
}

func TestProgressService_ChartSeriesPivot(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	weight, bodyFat, muscle := 80.0, 18.5, 36.2
	_, err := f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{
		RecordDate: date("2026-02-10"),
		Weight:     &weight,
		BodyFat:    &bodyFat,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{
		RecordDate: date("2026-02-10"),
		MuscleMass: &muscle,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{
		RecordDate: date("2026-03-10"),
		Weight:     &weight,
	})
	require.NoError(t, err)

	series, err := f.svc.GetChartSeries(ctx, f.trainerID, f.studentID)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Two records on the same date collapse into one point.
	first := series[0]
	require.Equal(t, "2026-02-10", first.Date)
	require.NotNil(t, first.Weight)
	require.NotNil(t, first.BodyFat)
	require.NotNil(t, first.MuscleMass)
	require.Equal(t, 36.2, *first.MuscleMass)

	second := series[1]
	require.Equal(t, "2026-03-10", second.Date)
	require.Nil(t, second.BodyFat)
}

func TestProgressService_PhotoLifecycle(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	record, err := f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{RecordDate: date("2026-02-01")})
	require.NoError(t, err)

	// No photo yet.
	_, err = f.svc.GetPhotoDownloadURL(ctx, f.trainerID, record.ID)
	require.ErrorIs(t, err, ErrPhotoMissing)

	resp, err := f.svc.RequestPhotoUploadURL(ctx, f.trainerID, record.ID, "image/jpeg")
	require.NoError(t, err)
	require.Contains(t, resp.ObjectKey, "progress-photos/")
	require.Contains(t, resp.ObjectKey, f.studentID.Hex())
	require.Contains(t, resp.UploadURL, resp.ObjectKey)

	updated, err := f.svc.ConfirmPhoto(ctx, f.trainerID, record.ID, resp.ObjectKey)
	require.NoError(t, err)
	require.Equal(t, resp.ObjectKey, updated.PhotoObjectKey)

	url, err := f.svc.GetPhotoDownloadURL(ctx, f.trainerID, record.ID)
	require.NoError(t, err)
	require.Contains(t, url, resp.ObjectKey)

	// Uploading a replacement drops the previous photo object, nothing else:
	// the record row itself stays, progress history is never deleted.
	second, err := f.svc.RequestPhotoUploadURL(ctx, f.trainerID, record.ID, "image/png")
	require.NoError(t, err)
	require.NotEqual(t, resp.ObjectKey, second.ObjectKey)

	replaced, err := f.svc.ConfirmPhoto(ctx, f.trainerID, record.ID, second.ObjectKey)
	require.NoError(t, err)
	require.Equal(t, second.ObjectKey, replaced.PhotoObjectKey)
	require.Contains(t, f.storage.deletedKeys, resp.ObjectKey)
	require.NotContains(t, f.storage.deletedKeys, second.ObjectKey)

	records, err := f.svc.GetRecords(ctx, f.trainerID, f.studentID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, record.ID, records[0].ID)
}

func TestProgressService_RejectsNonImageUpload(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	record, err := f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{RecordDate: date("2026-02-01")})
	require.NoError(t, err)

	_, err = f.svc.RequestPhotoUploadURL(ctx, f.trainerID, record.ID, "video/mp4")
	require.Error(t, err)
}

func TestProgressService_OwnershipThroughStudent(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	record, err := f.svc.CreateRecord(ctx, f.trainerID, f.studentID, ProgressInput{RecordDate: date("2026-02-01")})
	require.NoError(t, err)

	otherTrainer := primitive.NewObjectID()
	_, err = f.svc.GetRecords(ctx, otherTrainer, f.studentID)
	require.ErrorIs(t, err, ErrStudentAccessDenied)

	_, err = f.svc.UpdateRecord(ctx, otherTrainer, record.ID, ProgressInput{RecordDate: date("2026-02-02")})
	require.ErrorIs(t, err, ErrStudentAccessDenied)
}
