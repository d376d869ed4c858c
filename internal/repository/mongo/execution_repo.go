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

const executionCollectionName = "execution_logs"

// mongoExecutionRepository implements repository.ExecutionRepository
type mongoExecutionRepository struct {
	collection *mongo.Collection
}

// NewMongoExecutionRepository creates a new ExecutionLog repository.
func NewMongoExecutionRepository(db *mongo.Database) repository.ExecutionRepository {
	return &mongoExecutionRepository{
		collection: db.Collection(executionCollectionName),
	}
}

// Create inserts a new execution log. Logs are append-only: there is no
// update or delete path for them.
func (r *mongoExecutionRepository) Create(ctx context.Context, log *domain.ExecutionLog) (primitive.ObjectID, error) {
	if log.StudentID == primitive.NilObjectID || log.PlanExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("execution log requires studentId and planExerciseId")
	}
	if len(log.Sets) == 0 {
		return primitive.NilObjectID, errors.New("execution log requires at least one set result")
	}

	log.ID = primitive.NewObjectID()
	if log.PerformedAt.IsZero() {
		log.PerformedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted execution log ID")
	}
	return insertedID, nil
}

// ListByStudent retrieves all execution logs of a student, newest first.
func (r *mongoExecutionRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.ExecutionLog, error) {
	return r.list(ctx, bson.M{"studentId": studentID})
}

// ListByPlanExercise retrieves the execution history of one plan exercise,
// newest first.
func (r *mongoExecutionRepository) ListByPlanExercise(ctx context.Context, planExerciseID primitive.ObjectID) ([]domain.ExecutionLog, error) {
	return r.list(ctx, bson.M{"planExerciseId": planExerciseID})
}

func (r *mongoExecutionRepository) list(ctx context.Context, filter bson.M) ([]domain.ExecutionLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "performedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.ExecutionLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureExecutionIndexes creates necessary indexes for the execution_logs collection.
func EnsureExecutionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "performedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planExerciseId", Value: 1}, {Key: "performedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
