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

const measurementCollectionName = "measurements"

// mongoMeasurementRepository implements repository.MeasurementRepository
type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a new Measurement repository backed by MongoDB.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

// Create appends a new measurement row to a student's history.
func (r *mongoMeasurementRepository) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	if measurement.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement user ID is required")
	}

	measurement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	measurement.CreatedAt = now
	if measurement.TakenAt.IsZero() {
		measurement.TakenAt = now
	}

	result, err := r.collection.InsertOne(ctx, measurement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a single measurement row.
func (r *mongoMeasurementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Measurement, error) {
	var measurement domain.Measurement
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&measurement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &measurement, nil
}

// GetByUserID retrieves a student's full measurement history, newest first.
func (r *mongoMeasurementRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Measurement, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "takenAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var measurements []domain.Measurement
	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if measurements == nil {
		measurements = []domain.Measurement{}
	}

	return measurements, nil
}

// GetLatestByUserID returns the row with the maximum takenAt, or ErrNotFound
// when the student has no history at all.
func (r *mongoMeasurementRepository) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error) {
	var measurement domain.Measurement
	filter := bson.M{"userId": userID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "takenAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&measurement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &measurement, nil
}

// SetPhotoID links a confirmed progress photo to its measurement row.
// This is the single exception to the append-only rule.
func (r *mongoMeasurementRepository) SetPhotoID(ctx context.Context, measurementID, photoID primitive.ObjectID) error {
	filter := bson.M{"_id": measurementID}
	update := bson.M{"$set": bson.M{"photoId": photoID}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DistinctUserIDsSince returns the distinct owners (among userIDs) with at
// least one measurement taken at or after the cutoff.
func (r *mongoMeasurementRepository) DistinctUserIDsSince(ctx context.Context, userIDs []primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error) {
	if len(userIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	filter := bson.M{
		"userId":  bson.M{"$in": userIDs},
		"takenAt": bson.M{"$gte": since},
	}

	values, err := r.collection.Distinct(ctx, "userId", filter)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// EnsureMeasurementIndexes creates necessary indexes for the measurements collection.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// History listing and latest lookup
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "takenAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
