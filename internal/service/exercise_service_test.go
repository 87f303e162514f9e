package service

import (
	"context"
	"testing"

	"dmaraujo/trainerhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateExerciseRequiresName(t *testing.T) {
	svc := NewExerciseService(newFakeExerciseRepo())

	_, err := svc.CreateExercise(context.Background(), "", "desc", "chest")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestExerciseCRUD(t *testing.T) {
	svc := NewExerciseService(newFakeExerciseRepo())
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, "Supino reto", "Barbell on flat bench", "chest")
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	got, err := svc.GetExerciseByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supino reto", got.Name)

	newGroup := "upper chest"
	updated, err := svc.UpdateExercise(ctx, created.ID, UpdateExerciseInput{MuscleGroup: &newGroup})
	require.NoError(t, err)
	assert.Equal(t, "upper chest", updated.MuscleGroup)
	assert.Equal(t, "Supino reto", updated.Name, "untouched fields stay")

	require.NoError(t, svc.DeleteExercise(ctx, created.ID))
	_, err = svc.GetExerciseByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestListExercisesFilters(t *testing.T) {
	svc := NewExerciseService(newFakeExerciseRepo())
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, "Supino reto", "", "chest")
	require.NoError(t, err)
	_, err = svc.CreateExercise(ctx, "Agachamento livre", "", "legs")
	require.NoError(t, err)

	all, err := svc.ListExercises(ctx, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	legs, err := svc.ListExercises(ctx, repository.ExerciseFilter{MuscleGroup: "legs"})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "Agachamento livre", legs[0].Name)

	byName, err := svc.ListExercises(ctx, repository.ExerciseFilter{Name: "supino"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Supino reto", byName[0].Name)
}

func TestExerciseNotFound(t *testing.T) {
	svc := NewExerciseService(newFakeExerciseRepo())
	ctx := context.Background()
	missing := primitive.NewObjectID()

	_, err := svc.GetExerciseByID(ctx, missing)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	_, err = svc.UpdateExercise(ctx, missing, UpdateExerciseInput{})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	err = svc.DeleteExercise(ctx, missing)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
