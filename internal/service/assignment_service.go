package service

import (
	"context"
	"errors"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAssignmentNotFound        = errors.New("assignment not found")
	ErrAssignmentAlreadyActive   = errors.New("student already has an active assignment for this workout")
	ErrAssignmentAlreadyFinished = errors.New("assignment already finished")
)

// AssignmentDetail is an assignment enriched with its workout header for
// display in a student's history.
type AssignmentDetail struct {
	domain.Assignment
	WorkoutName        string `json:"workoutName"`
	WorkoutObjective   string `json:"workoutObjective,omitempty"`
	WorkoutDescription string `json:"workoutDescription,omitempty"`
}

// --- Service Interface ---
type AssignmentService interface {
	AssignWorkout(ctx context.Context, coachID, studentID, workoutID primitive.ObjectID, startDate, endDate *time.Time) (*domain.Assignment, error)
	GetStudentWorkouts(ctx context.Context, coachID, studentID primitive.ObjectID) ([]AssignmentDetail, error)
	FinishAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) (*domain.Assignment, error)
}

// --- Service Implementation ---

// assignmentService implements the AssignmentService interface.
type assignmentService struct {
	userRepo       repository.UserRepository
	workoutRepo    repository.WorkoutRepository
	assignmentRepo repository.AssignmentRepository
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
) AssignmentService {
	return &assignmentService{
		userRepo:       userRepo,
		workoutRepo:    workoutRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AssignWorkout hands a workout template to a student. Both the student and
// the workout must belong to the calling coach. A second active assignment
// for the same (student, workout) pair is rejected with a conflict; once the
// first one is finished, a fresh assignment for the pair is allowed again.
func (s *assignmentService) AssignWorkout(ctx context.Context, coachID, studentID, workoutID primitive.ObjectID, startDate, endDate *time.Time) (*domain.Assignment, error) {
	if studentID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}

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

	// Pre-check for a friendly conflict message; the partial unique index is
	// the real guard when two requests race.
	_, err = s.assignmentRepo.GetActiveByStudentAndWorkout(ctx, studentID, workoutID)
	if err == nil {
		return nil, ErrAssignmentAlreadyActive
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	assignment := &domain.Assignment{
		StudentID: studentID,
		WorkoutID: workoutID,
		Status:    domain.AssignmentActive,
	}
	if startDate != nil {
		assignment.StartDate = *startDate
	}
	if endDate != nil {
		assignment.EndDate = endDate
	}

	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAssignmentAlreadyActive
		}
		return nil, err
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// GetStudentWorkouts returns an owned student's assignment history, each
// entry enriched with its workout header, newest start first.
func (s *assignmentService) GetStudentWorkouts(ctx context.Context, coachID, studentID primitive.ObjectID) ([]AssignmentDetail, error) {
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	details := make([]AssignmentDetail, 0, len(assignments))
	for _, assignment := range assignments {
		detail := AssignmentDetail{Assignment: assignment}
		workout, wErr := s.workoutRepo.GetByID(ctx, assignment.WorkoutID)
		if wErr == nil {
			detail.WorkoutName = workout.Name
			detail.WorkoutObjective = workout.Objective
			detail.WorkoutDescription = workout.Description
		}
		details = append(details, detail)
	}
	return details, nil
}

// FinishAssignment transitions active → finished and stamps the end date.
// Finishing an already-finished assignment is rejected, never silently
// accepted; the transition is strictly one-way.
func (s *assignmentService) FinishAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	// Ownership guard: the assignment's student must belong to the caller.
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, assignment.StudentID); err != nil {
		return nil, ErrAssignmentNotFound
	}

	if assignment.IsFinished() {
		return nil, ErrAssignmentAlreadyFinished
	}

	now := time.Now().UTC()
	assignment.Status = domain.AssignmentFinished
	assignment.EndDate = &now

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}
