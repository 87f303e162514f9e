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

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutExerciseRepository creates a new WorkoutExercise repository
// backed by MongoDB.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
	}
}

// Create inserts a new join row linking an exercise into a workout.
func (r *mongoWorkoutExerciseRepository) Create(ctx context.Context, item *domain.WorkoutExercise) (primitive.ObjectID, error) {
	if item.WorkoutID == primitive.NilObjectID || item.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout ID and exercise ID are required")
	}

	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The same exercise twice in one workout trips the compound unique index.
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByWorkoutID retrieves the join rows of a workout, ordered by their
// display sequence.
func (r *mongoWorkoutExerciseRepository) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	filter := bson.M{"workoutId": workoutID}
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.WorkoutExercise
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WorkoutExercise{}
	}

	return items, nil
}

// GetByWorkoutAndExercise looks up a single join row by its composite identity.
func (r *mongoWorkoutExerciseRepository) GetByWorkoutAndExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExercise, error) {
	var item domain.WorkoutExercise
	filter := bson.M{"workoutId": workoutID, "exerciseId": exerciseID}

	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update modifies the prescription fields of an existing join row.
// WorkoutID and ExerciseID are the row's identity and never change.
func (r *mongoWorkoutExerciseRepository) Update(ctx context.Context, item *domain.WorkoutExercise) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("workout exercise ID is required for update")
	}

	filter := bson.M{"_id": item.ID}
	updateFields := bson.M{
		"sequence":    item.Sequence,
		"sets":        item.Sets,
		"reps":        item.Reps,
		"restSeconds": item.RestSeconds,
		"notes":       item.Notes,
		"updatedAt":   time.Now().UTC(),
	}
	if item.Weight != nil {
		updateFields["weight"] = *item.Weight
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

// Delete removes the join row identified by (workoutID, exerciseID).
func (r *mongoWorkoutExerciseRepository) Delete(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	filter := bson.M{"workoutId": workoutID, "exerciseId": exerciseID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureWorkoutExerciseIndexes creates necessary indexes for the
// workout_exercises collection.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Composite identity: one row per exercise per workout.
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Ordered listing within a workout
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
