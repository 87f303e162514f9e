package mongo

import (
	"context"
	"errors"
	"log"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const photoCollectionName = "progress_photos"

// mongoProgressPhotoRepository implements repository.ProgressPhotoRepository
type mongoProgressPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressPhotoRepository creates a new ProgressPhoto repository
// backed by MongoDB.
func NewMongoProgressPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoProgressPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts progress photo metadata after the S3 upload is confirmed.
func (r *mongoProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.MeasurementID == primitive.NilObjectID || photo.UserID == primitive.NilObjectID || photo.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("photo requires measurementId, userId, and s3ObjectKey")
	}

	photo.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves photo metadata by its ID.
func (r *mongoProgressPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// GetByMeasurementID retrieves the photo attached to a measurement, if any.
// One photo per check-in.
func (r *mongoProgressPhotoRepository) GetByMeasurementID(ctx context.Context, measurementID primitive.ObjectID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	filter := bson.M{"measurementId": measurementID}

	err := r.collection.FindOne(ctx, filter).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// EnsureProgressPhotoIndexes creates necessary indexes for the
// progress_photos collection.
func EnsureProgressPhotoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "measurementId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
