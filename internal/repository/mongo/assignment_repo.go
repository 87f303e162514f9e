package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment. The partial unique index on
// (studentId, workoutId) where status is active turns a concurrent duplicate
// into ErrDuplicate, so two racing requests cannot both produce an active
// assignment for the same pair.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.StudentID == primitive.NilObjectID || assignment.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires studentId and workoutId")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Status == "" { // Default status if not provided
		assignment.Status = domain.AssignmentActive
	}
	if assignment.StartDate.IsZero() {
		assignment.StartDate = now
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}

	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByStudentID retrieves all assignments for a student, newest start first.
func (r *mongoAssignmentRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Assignment, error) {
	filter := bson.M{"studentId": studentID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []domain.Assignment{}
	}

	return assignments, nil
}

// GetActiveByStudentAndWorkout finds the currently active assignment for the
// (student, workout) pair, if any.
func (r *mongoAssignmentRepository) GetActiveByStudentAndWorkout(ctx context.Context, studentID, workoutID primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	filter := bson.M{
		"studentId": studentID,
		"workoutId": workoutID,
		"status":    domain.AssignmentActive,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// Update persists the lifecycle fields of an assignment.
func (r *mongoAssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	if assignment.ID == primitive.NilObjectID {
		return errors.New("assignment ID is required for update")
	}

	filter := bson.M{"_id": assignment.ID}
	updateFields := bson.M{
		"status":    assignment.Status,
		"updatedAt": time.Now().UTC(),
	}
	if assignment.EndDate != nil {
		updateFields["endDate"] = *assignment.EndDate
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updateFields})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountActiveByStudentIDs counts active assignments whose student is in the
// given set. Used by the coach dashboard.
func (r *mongoAssignmentRepository) CountActiveByStudentIDs(ctx context.Context, studentIDs []primitive.ObjectID) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"studentId": bson.M{"$in": studentIDs},
		"status":    domain.AssignmentActive,
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// At most one ACTIVE assignment per (student, workout) pair.
			// Partial so that finished assignments never collide.
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "workoutId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.AssignmentActive}),
		},
		{
			// Student history listing, newest start first
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			// Dashboard filtering on status
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
