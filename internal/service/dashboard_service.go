package service

import (
	"context"
	"errors"
	"time"

	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurements older than this window count a student as "pending".
const measurementFreshness = 30 * 24 * time.Hour

// DashboardStats is the coach KPI summary. All three numbers are computed at
// request time; nothing is materialized or cached.
type DashboardStats struct {
	ActiveStudents      int64 `json:"activeStudents"`
	ActiveAssignments   int64 `json:"activeAssignments"`
	PendingMeasurements int64 `json:"pendingMeasurements"`
}

// --- Service Interface ---
type DashboardService interface {
	GetStats(ctx context.Context, coachID primitive.ObjectID) (*DashboardStats, error)
}

// --- Service Implementation ---

type dashboardService struct {
	userRepo        repository.UserRepository
	assignmentRepo  repository.AssignmentRepository
	measurementRepo repository.MeasurementRepository
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	measurementRepo repository.MeasurementRepository,
) DashboardService {
	return &dashboardService{
		userRepo:        userRepo,
		assignmentRepo:  assignmentRepo,
		measurementRepo: measurementRepo,
	}
}

// GetStats computes the calling coach's KPIs: active student count, active
// assignments among those students, and how many of those students have no
// measurement within the freshness window.
func (s *dashboardService) GetStats(ctx context.Context, coachID primitive.ObjectID) (*DashboardStats, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}

	activeStudents, err := s.userRepo.CountActiveStudents(ctx, coachID)
	if err != nil {
		return nil, err
	}

	studentIDs, err := s.userRepo.GetActiveStudentIDs(ctx, coachID)
	if err != nil {
		return nil, err
	}

	activeAssignments, err := s.assignmentRepo.CountActiveByStudentIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	// Pending = active students minus the distinct set with a recent check-in.
	cutoff := time.Now().UTC().Add(-measurementFreshness)
	recentIDs, err := s.measurementRepo.DistinctUserIDsSince(ctx, studentIDs, cutoff)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ActiveStudents:      activeStudents,
		ActiveAssignments:   activeAssignments,
		PendingMeasurements: activeStudents - int64(len(recentIDs)),
	}, nil
}
