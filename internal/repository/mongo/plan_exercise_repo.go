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

const planExerciseCollectionName = "plan_exercises"

// mongoPlanExerciseRepository implements repository.PlanExerciseRepository
type mongoPlanExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanExerciseRepository creates a new PlanExercise repository.
func NewMongoPlanExerciseRepository(db *mongo.Database) repository.PlanExerciseRepository {
	return &mongoPlanExerciseRepository{
		collection: db.Collection(planExerciseCollectionName),
	}
}

// Create inserts a new plan exercise slot.
func (r *mongoPlanExerciseRepository) Create(ctx context.Context, pe *domain.PlanExercise) (primitive.ObjectID, error) {
	if pe.PlanID == primitive.NilObjectID || pe.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan exercise requires planId and exerciseId")
	}
	if pe.Day < 1 || pe.Sets < 1 {
		return primitive.NilObjectID, errors.New("plan exercise requires a positive day and set count")
	}

	pe.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pe.CreatedAt = now
	pe.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pe)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan exercise ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan exercise.
func (r *mongoPlanExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExercise, error) {
	var pe domain.PlanExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pe, nil
}

// ListByPlan retrieves all exercises of a plan ordered by day then order.
// Order values are not unique, so creation time breaks ties to keep the
// listing deterministic.
func (r *mongoPlanExerciseRepository) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error) {
	filter := bson.M{"planId": planID}
	opts := options.Find().SetSort(bson.D{
		{Key: "day", Value: 1},
		{Key: "order", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.PlanExercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update replaces the mutable fields of a plan exercise.
func (r *mongoPlanExerciseRepository) Update(ctx context.Context, pe *domain.PlanExercise) error {
	if pe.ID == primitive.NilObjectID {
		return errors.New("plan exercise ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"exerciseId":  pe.ExerciseID,
			"day":         pe.Day,
			"order":       pe.Order,
			"sets":        pe.Sets,
			"reps":        pe.Reps,
			"load":        pe.Load,
			"restSeconds": pe.RestSeconds,
			"notes":       pe.Notes,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pe.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan exercise permanently. No soft-delete flag applies to
// this entity.
func (r *mongoPlanExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanExerciseIndexes creates necessary indexes for the plan_exercises collection.
func EnsurePlanExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Not unique: (plan, day, order) collisions are allowed.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "day", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
