package service

import (
	"context"
	"testing"

	"dmaraujo/trainerhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignmentFixture struct {
	svc       AssignmentService
	coachID   primitive.ObjectID
	studentID primitive.ObjectID
	workoutID primitive.ObjectID
}

func newAssignmentFixture(t *testing.T) assignmentFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()

	coachID := primitive.NewObjectID()
	student := seedStudent(t, NewStudentService(userRepo), coachID, "Ana", "ana@example.com")

	workoutID, err := workoutRepo.Create(context.Background(), &domain.Workout{
		CoachID: coachID,
		Name:    "Treino A",
	})
	require.NoError(t, err)

	return assignmentFixture{
		svc:       NewAssignmentService(userRepo, workoutRepo, newFakeAssignmentRepo()),
		coachID:   coachID,
		studentID: student.ID,
		workoutID: workoutID,
	}
}

func TestAssignWorkout(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment, err := f.svc.AssignWorkout(context.Background(), f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.AssignmentActive, assignment.Status)
	assert.Equal(t, f.studentID, assignment.StudentID)
	assert.Equal(t, f.workoutID, assignment.WorkoutID)
	assert.False(t, assignment.StartDate.IsZero(), "start date defaults to now")
	assert.Nil(t, assignment.EndDate)
}

func TestAssignWorkoutUnknownTargets(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignWorkout(ctx, f.coachID, primitive.NewObjectID(), f.workoutID, nil, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.svc.AssignWorkout(ctx, f.coachID, f.studentID, primitive.NewObjectID(), nil, nil)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	// A different coach owns neither the student nor the workout.
	_, err = f.svc.AssignWorkout(ctx, primitive.NewObjectID(), f.studentID, f.workoutID, nil, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAssignWorkoutDuplicateActiveConflicts(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	assert.ErrorIs(t, err, ErrAssignmentAlreadyActive)
}

func TestAssignWorkoutAgainAfterFinishing(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	first, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.FinishAssignment(ctx, f.coachID, first.ID)
	require.NoError(t, err)

	// Once the first cycle is finished the pair is free again.
	second, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFinishAssignment(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	finished, err := f.svc.FinishAssignment(ctx, f.coachID, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentFinished, finished.Status)
	require.NotNil(t, finished.EndDate)

	// The transition is one-way; finishing again is a conflict.
	_, err = f.svc.FinishAssignment(ctx, f.coachID, assignment.ID)
	assert.ErrorIs(t, err, ErrAssignmentAlreadyFinished)
}

func TestFinishAssignmentOwnership(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.FinishAssignment(ctx, primitive.NewObjectID(), assignment.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = f.svc.FinishAssignment(ctx, f.coachID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestGetStudentWorkoutsEnriched(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignWorkout(ctx, f.coachID, f.studentID, f.workoutID, nil, nil)
	require.NoError(t, err)

	details, err := f.svc.GetStudentWorkouts(ctx, f.coachID, f.studentID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Treino A", details[0].WorkoutName)
	assert.Equal(t, domain.AssignmentActive, details[0].Status)

	_, err = f.svc.GetStudentWorkouts(ctx, primitive.NewObjectID(), f.studentID)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
