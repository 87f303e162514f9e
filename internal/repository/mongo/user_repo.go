package mongo

import (
	"context"
	"errors" // Import the standard errors package
	"log"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository" // Import the repository interfaces package

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	// Essential fields must be present; richer validation belongs in the service layer.
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID() // Generate new ObjectID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = domain.UserActive
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique index on email serializes concurrent registrations; the
		// loser surfaces here as a duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err // Return other insertion errors
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Return the custom repository error for not found
			return nil, repository.ErrNotFound
		}
		return nil, err // Return other errors
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update persists the mutable profile fields of an existing user.
// Role and CoachID are deliberately not part of the update document; a
// student cannot be re-owned or promoted through a profile update.
func (r *mongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == primitive.NilObjectID {
		return errors.New("user ID is required for update")
	}

	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$set": bson.M{
			"name":         user.Name,
			"email":        user.Email,
			"passwordHash": user.PasswordHash,
			"status":       user.Status,
			"objective":    user.Objective,
			"phone":        user.Phone,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Email collision with another user.
			return repository.ErrDuplicate
		}
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount may be 0 when the data is unchanged, which is fine.

	return nil
}

// GetStudentsByCoachID retrieves the students owned by a coach, optionally
// narrowed by a partial name match and/or an exact status.
func (r *mongoUserRepository) GetStudentsByCoachID(ctx context.Context, coachID primitive.ObjectID, filter repository.StudentFilter) ([]domain.User, error) {
	query := bson.M{
		"coachId": coachID,
		"role":    domain.RoleStudent,
	}
	if filter.Name != "" {
		// Case-insensitive partial match on name.
		query["name"] = bson.M{"$regex": primitive.Regex{Pattern: filter.Name, Options: "i"}}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx) // Ensure cursor is closed

	var students []domain.User
	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if students == nil {
		students = []domain.User{}
	}

	return students, nil
}

// CountActiveStudents counts the active students owned by a coach.
func (r *mongoUserRepository) CountActiveStudents(ctx context.Context, coachID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"coachId": coachID,
		"role":    domain.RoleStudent,
		"status":  domain.UserActive,
	}
	return r.collection.CountDocuments(ctx, filter)
}

// GetActiveStudentIDs returns only the ObjectIDs of a coach's active
// students, for use in follow-up $in queries.
func (r *mongoUserRepository) GetActiveStudentIDs(ctx context.Context, coachID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"coachId": coachID,
		"role":    domain.RoleStudent,
		"status":  domain.UserActive,
	}
	// Project only _id; the caller never needs full documents here.
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}}, // Create index on email
			Options: options.Index().SetUnique(true),  // Make email unique
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}}, // Index for finding students by coach
			Options: options.Index().SetSparse(true),    // Sparse because coaches have no coachId
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Not fatal at startup; queries still work, only slower and without
		// the uniqueness backstop.
		log.Printf("WARN: failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
