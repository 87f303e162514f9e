package service

import (
	"context"
	"testing"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func seedStudent(t *testing.T, svc StudentService, coachID primitive.ObjectID, name, email string) *domain.User {
	t.Helper()
	student, err := svc.CreateStudent(context.Background(), coachID, CreateStudentInput{
		Name:  name,
		Email: email,
	})
	require.NoError(t, err)
	return student
}

func TestCreateStudentForcesRoleAndCoach(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	student, err := svc.CreateStudent(context.Background(), coachID, CreateStudentInput{
		Name:      "Ana",
		Email:     "ana@example.com",
		Objective: "hypertrophy",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleStudent, student.Role)
	assert.Equal(t, domain.UserActive, student.Status)
	require.NotNil(t, student.CoachID)
	assert.Equal(t, coachID, *student.CoachID)
	assert.Empty(t, student.PasswordHash)
}

func TestCreateStudentDefaultPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	student := seedStudent(t, svc, coachID, "Ana", "ana@example.com")

	stored := userRepo.users[student.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(defaultStudentPassword)))
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	seedStudent(t, svc, coachID, "Ana", "ana@example.com")

	_, err := svc.CreateStudent(context.Background(), coachID, CreateStudentInput{
		Name:  "Ana Clone",
		Email: "ana@example.com",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestListStudentsOnlyOwnRoster(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachA := primitive.NewObjectID()
	coachB := primitive.NewObjectID()

	seedStudent(t, svc, coachA, "Ana", "ana@example.com")
	seedStudent(t, svc, coachA, "Bruno", "bruno@example.com")
	seedStudent(t, svc, coachB, "Carla", "carla@example.com")

	students, err := svc.ListStudents(context.Background(), coachA, repository.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	for _, student := range students {
		assert.Equal(t, coachA, *student.CoachID)
		assert.Empty(t, student.PasswordHash)
	}
}

func TestListStudentsFilters(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	seedStudent(t, svc, coachID, "Ana Souza", "ana@example.com")
	inactive := seedStudent(t, svc, coachID, "Bruno", "bruno@example.com")
	require.NoError(t, svc.DeleteStudent(context.Background(), coachID, inactive.ID))

	byName, err := svc.ListStudents(context.Background(), coachID, repository.StudentFilter{Name: "souza"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ana Souza", byName[0].Name)

	byStatus, err := svc.ListStudents(context.Background(), coachID, repository.StudentFilter{Status: domain.UserInactive})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Bruno", byStatus[0].Name)
}

func TestGetStudentOwnershipIsolation(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()

	student := seedStudent(t, svc, owner, "Ana", "ana@example.com")

	got, err := svc.GetStudent(context.Background(), owner, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)

	// Another coach sees exactly what they would see for a nonexistent ID.
	_, err = svc.GetStudent(context.Background(), intruder, student.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.GetStudent(context.Background(), owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestUpdateStudentPartialMerge(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	student := seedStudent(t, svc, coachID, "Ana", "ana@example.com")

	phone := "+55 11 98888-7777"
	updated, err := svc.UpdateStudent(context.Background(), coachID, student.ID, UpdateStudentInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)
}

func TestDeleteStudentSoftAndIdempotent(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewStudentService(userRepo)
	coachID := primitive.NewObjectID()

	student := seedStudent(t, svc, coachID, "Ana", "ana@example.com")

	require.NoError(t, svc.DeleteStudent(context.Background(), coachID, student.ID))

	// The record survives with status inactive.
	got, err := svc.GetStudent(context.Background(), coachID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserInactive, got.Status)

	// Deleting again succeeds, nothing changes.
	require.NoError(t, svc.DeleteStudent(context.Background(), coachID, student.ID))
	got, err = svc.GetStudent(context.Background(), coachID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserInactive, got.Status)
}
