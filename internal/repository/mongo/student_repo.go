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

const studentCollectionName = "students"

// mongoStudentRepository implements repository.StudentRepository
type mongoStudentRepository struct {
	collection *mongo.Collection
}

// NewMongoStudentRepository creates a new Student repository.
func NewMongoStudentRepository(db *mongo.Database) repository.StudentRepository {
	return &mongoStudentRepository{
		collection: db.Collection(studentCollectionName),
	}
}

// Create inserts a new student owned by a trainer. New students start active.
func (r *mongoStudentRepository) Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error) {
	if student.TrainerID == primitive.NilObjectID || student.Name == "" || student.Email == "" {
		return primitive.NilObjectID, errors.New("student requires trainerId, name, and email")
	}

	student.ID = primitive.NewObjectID()
	student.Active = true
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, student)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted student ID")
	}
	return insertedID, nil
}

// GetByID retrieves a student by ID, regardless of the Active flag.
// Deactivated students stay fetchable by direct ID.
func (r *mongoStudentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error) {
	var student domain.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// GetByEmail retrieves an active student by email. Used to link a student
// login account to its managed row.
func (r *mongoStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	var student domain.Student
	filter := bson.M{"email": email, "active": true}
	err := r.collection.FindOne(ctx, filter).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// ListActiveByTrainer retrieves all active students of a trainer,
// newest first.
func (r *mongoStudentRepository) ListActiveByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Student, error) {
	filter := bson.M{"trainerId": trainerID, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := []domain.Student{}
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Update replaces the mutable fields of a student row.
func (r *mongoStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	if student.ID == primitive.NilObjectID {
		return errors.New("student ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":      student.Name,
			"email":     student.Email,
			"phone":     student.Phone,
			"birthDate": student.BirthDate,
			"height":    student.Height,
			"weight":    student.Weight,
			"goal":      student.Goal,
			"notes":     student.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": student.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive flips the soft-delete flag. The filter includes the trainer ID so
// ownership is enforced at the DB level.
func (r *mongoStudentRepository) SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error {
	filter := bson.M{"_id": id, "trainerId": trainerID}
	update := bson.M{
		"$set": bson.M{
			"active":    active,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureStudentIndexes creates necessary indexes for the students collection.
func EnsureStudentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "active", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
