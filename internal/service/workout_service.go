package service

import (
	"context"
	"errors"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// Like students, a workout owned by another coach reads as missing.
	ErrWorkoutNotFound          = errors.New("workout not found")
	ErrWorkoutExerciseNotFound  = errors.New("exercise not found in this workout")
	ErrExerciseAlreadyInWorkout = errors.New("exercise already added to this workout")
)

// WorkoutExerciseDetail is a join row enriched with catalog details for
// display in a workout sheet.
type WorkoutExerciseDetail struct {
	domain.WorkoutExercise
	ExerciseName string `json:"exerciseName"`
	MuscleGroup  string `json:"muscleGroup,omitempty"`
}

// AddWorkoutExerciseInput carries the prescription for a new workout slot.
type AddWorkoutExerciseInput struct {
	ExerciseID  primitive.ObjectID
	Sequence    int
	Sets        int
	Reps        string
	RestSeconds int
	Weight      *float64
	Notes       string
}

// UpdateWorkoutInput carries a partial workout header update.
type UpdateWorkoutInput struct {
	Name        *string
	Objective   *string
	Description *string
}

// UpdateWorkoutExerciseInput carries a partial prescription update for one
// workout slot.
type UpdateWorkoutExerciseInput struct {
	Sequence    *int
	Sets        *int
	Reps        *string
	RestSeconds *int
	Weight      *float64
	Notes       *string
}

// --- Service Interface ---
type WorkoutService interface {
	CreateWorkout(ctx context.Context, coachID primitive.ObjectID, name, objective, description string) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, coachID primitive.ObjectID, nameFilter string) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, input UpdateWorkoutInput) (*domain.Workout, error)
	ListWorkoutExercises(ctx context.Context, coachID, workoutID primitive.ObjectID) ([]WorkoutExerciseDetail, error)
	AddExerciseToWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, input AddWorkoutExerciseInput) (*domain.WorkoutExercise, error)
	UpdateWorkoutExercise(ctx context.Context, coachID, workoutID, exerciseID primitive.ObjectID, input UpdateWorkoutExerciseInput) (*domain.WorkoutExercise, error)
	RemoveExerciseFromWorkout(ctx context.Context, coachID, workoutID, exerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo         repository.WorkoutRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	exerciseRepo        repository.ExerciseRepository // Needed to enrich workout sheets
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:         workoutRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		exerciseRepo:        exerciseRepo,
	}
}

// getOwnedWorkout is the centralized ownership guard for workout templates.
func (s *workoutService) getOwnedWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.CoachID != coachID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// CreateWorkout creates a new workout template owned by the caller.
func (s *workoutService) CreateWorkout(ctx context.Context, coachID primitive.ObjectID, name, objective, description string) (*domain.Workout, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required to create a workout")
	}

	workout := &domain.Workout{
		CoachID:     coachID,
		Name:        name,
		Objective:   objective,
		Description: description,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// ListWorkouts retrieves the caller's templates with an optional name filter.
func (s *workoutService) ListWorkouts(ctx context.Context, coachID primitive.ObjectID, nameFilter string) ([]domain.Workout, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	return s.workoutRepo.GetByCoachID(ctx, coachID, nameFilter)
}

// UpdateWorkout merges the provided fields over an owned workout header.
func (s *workoutService) UpdateWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, input UpdateWorkoutInput) (*domain.Workout, error) {
	workout, err := s.getOwnedWorkout(ctx, coachID, workoutID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrValidationFailed
		}
		workout.Name = *input.Name
	}
	if input.Objective != nil {
		workout.Objective = *input.Objective
	}
	if input.Description != nil {
		workout.Description = *input.Description
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// ListWorkoutExercises returns the workout sheet: join rows ordered by
// sequence, each enriched with its exercise's name and muscle group.
func (s *workoutService) ListWorkoutExercises(ctx context.Context, coachID, workoutID primitive.ObjectID) ([]WorkoutExerciseDetail, error) {
	if _, err := s.getOwnedWorkout(ctx, coachID, workoutID); err != nil {
		return nil, err
	}

	items, err := s.workoutExerciseRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	details := make([]WorkoutExerciseDetail, 0, len(items))
	for _, item := range items {
		detail := WorkoutExerciseDetail{WorkoutExercise: item}
		exercise, exErr := s.exerciseRepo.GetByID(ctx, item.ExerciseID)
		if exErr == nil {
			detail.ExerciseName = exercise.Name
			detail.MuscleGroup = exercise.MuscleGroup
		}
		// A catalog exercise deleted after being linked leaves the name blank
		// rather than failing the whole sheet.
		details = append(details, detail)
	}
	return details, nil
}

// AddExerciseToWorkout links a catalog exercise into an owned workout.
func (s *workoutService) AddExerciseToWorkout(ctx context.Context, coachID, workoutID primitive.ObjectID, input AddWorkoutExerciseInput) (*domain.WorkoutExercise, error) {
	if input.ExerciseID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	if _, err := s.getOwnedWorkout(ctx, coachID, workoutID); err != nil {
		return nil, err
	}

	// The referenced exercise must exist in the catalog.
	if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	item := &domain.WorkoutExercise{
		WorkoutID:   workoutID,
		ExerciseID:  input.ExerciseID,
		Sequence:    input.Sequence,
		Sets:        input.Sets,
		Reps:        input.Reps,
		RestSeconds: input.RestSeconds,
		Weight:      input.Weight,
		Notes:       input.Notes,
	}

	itemID, err := s.workoutExerciseRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseAlreadyInWorkout
		}
		return nil, err
	}
	item.ID = itemID
	return item, nil
}

// UpdateWorkoutExercise merges prescription changes into the join row
// identified by (workoutID, exerciseID).
func (s *workoutService) UpdateWorkoutExercise(ctx context.Context, coachID, workoutID, exerciseID primitive.ObjectID, input UpdateWorkoutExerciseInput) (*domain.WorkoutExercise, error) {
	if _, err := s.getOwnedWorkout(ctx, coachID, workoutID); err != nil {
		return nil, err
	}

	item, err := s.workoutExerciseRepo.GetByWorkoutAndExercise(ctx, workoutID, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}

	if input.Sequence != nil {
		item.Sequence = *input.Sequence
	}
	if input.Sets != nil {
		item.Sets = *input.Sets
	}
	if input.Reps != nil {
		item.Reps = *input.Reps
	}
	if input.RestSeconds != nil {
		item.RestSeconds = *input.RestSeconds
	}
	if input.Weight != nil {
		item.Weight = input.Weight
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}

	if err := s.workoutExerciseRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, err
	}
	return item, nil
}

// RemoveExerciseFromWorkout deletes the join row identified by
// (workoutID, exerciseID).
func (s *workoutService) RemoveExerciseFromWorkout(ctx context.Context, coachID, workoutID, exerciseID primitive.ObjectID) error {
	if _, err := s.getOwnedWorkout(ctx, coachID, workoutID); err != nil {
		return err
	}

	err := s.workoutExerciseRepo.Delete(ctx, workoutID, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutExerciseNotFound
		}
		return err
	}
	return nil
}
