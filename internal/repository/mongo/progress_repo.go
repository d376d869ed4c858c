package mongo

import (
	"context"
	"errors"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress_records"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new ProgressRecord repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new progress record.
func (r *mongoProgressRepository) Create(ctx context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error) {
	if record.StudentID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress record requires studentId")
	}
	if record.RecordDate.IsZero() {
		return primitive.NilObjectID, errors.New("progress record requires a record date")
	}

	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress record ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single progress record.
func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByStudent retrieves all progress records of a student ordered by
// record date ascending, the order trend charts consume.
func (r *mongoProgressRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.ProgressRecord, error) {
	filter := bson.M{"studentId": studentID}
	opts := options.Find().SetSort(bson.D{{Key: "recordDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.ProgressRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the mutable fields of a progress record.
func (r *mongoProgressRepository) Update(ctx context.Context, record *domain.ProgressRecord) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("progress record ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"recordDate":     record.RecordDate,
			"weight":         record.Weight,
			"bodyFat":        record.BodyFat,
			"muscleMass":     record.MuscleMass,
			"measurements":   record.Measurements,
			"notes":          record.Notes,
			"photoObjectKey": record.PhotoObjectKey,
			"updatedAt":      time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes for the progress_records collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "recordDate", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
