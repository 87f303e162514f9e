package repository

import (
	"context" // Standard for request-scoped deadlines, cancellation signals, etc.
	"time"

	"dmaraujo/trainerhub/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StudentFilter narrows student roster listings. Name matches partially and
// case-insensitively; Status matches exactly when non-empty.
type StudentFilter struct {
	Name   string
	Status domain.UserStatus
}

// ExerciseFilter narrows catalog listings.
type ExerciseFilter struct {
	Name        string // Partial, case-insensitive
	MuscleGroup string // Exact
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	GetStudentsByCoachID(ctx context.Context, coachID primitive.ObjectID, filter StudentFilter) ([]domain.User, error)
	// Dashboard helpers
	CountActiveStudents(ctx context.Context, coachID primitive.ObjectID) (int64, error)
	GetActiveStudentIDs(ctx context.Context, coachID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MeasurementRepository defines the interface for interacting with the
// append-only measurement history.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Measurement, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Measurement, error)
	GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error)
	SetPhotoID(ctx context.Context, measurementID, photoID primitive.ObjectID) error
	// DistinctUserIDsSince returns the distinct owners (among userIDs) that
	// have at least one measurement taken at or after the given time.
	DistinctUserIDsSince(ctx context.Context, userIDs []primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error)
}

// ProgressPhotoRepository defines the interface for progress photo metadata.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByMeasurementID(ctx context.Context, measurementID primitive.ObjectID) (*domain.ProgressPhoto, error)
}

// ExerciseRepository defines the interface for interacting with the shared
// exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout
// template data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID, nameFilter string) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
}

// WorkoutExerciseRepository defines the interface for the workout/exercise
// join rows. Lookups use the (workoutID, exerciseID) pair.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, item *domain.WorkoutExercise) (primitive.ObjectID, error)
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	GetByWorkoutAndExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExercise, error)
	Update(ctx context.Context, item *domain.WorkoutExercise) error
	Delete(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
}

// AssignmentRepository defines the interface for interacting with
// student/workout assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Assignment, error)
	GetActiveByStudentAndWorkout(ctx context.Context, studentID, workoutID primitive.ObjectID) (*domain.Assignment, error)
	Update(ctx context.Context, assignment *domain.Assignment) error
	// Dashboard helper
	CountActiveByStudentIDs(ctx context.Context, studentIDs []primitive.ObjectID) (int64, error)
}
