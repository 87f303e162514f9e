package service

import (
	"context"
	"errors"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository" // Import repository package

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
)

// UpdateExerciseInput carries a partial catalog update. Nil fields keep
// their current value.
type UpdateExerciseInput struct {
	Name        *string
	Description *string
	MuscleGroup *string
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, name, description, muscleGroup string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input UpdateExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface. The catalog is
// shared: no ownership checks apply here.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateExercise handles the creation of a new catalog exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, name, description, muscleGroup string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed // Name is required
	}

	exercise := &domain.Exercise{
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	// Fetch again so CreatedAt/UpdatedAt come back populated.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err // Propagate other repository errors
	}
	return exercise, nil
}

// ListExercises retrieves catalog exercises with optional filters.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

// UpdateExercise merges the provided fields over an existing exercise.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, input UpdateExerciseInput) (*domain.Exercise, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrValidationFailed
		}
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.MuscleGroup != nil {
		existing.MuscleGroup = *input.MuscleGroup
	}

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes an exercise from the catalog.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
