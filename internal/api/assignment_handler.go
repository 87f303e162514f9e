package api

import (
	"errors"
	"net/http"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentHandler holds the assignment service dependency.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- DTOs ---

type AssignWorkoutRequest struct {
	StudentID string     `json:"studentId" binding:"required"`
	WorkoutID string     `json:"workoutId" binding:"required"`
	StartDate *time.Time `json:"startDate"` // Defaults to now when omitted
	EndDate   *time.Time `json:"endDate"`
}

type AssignmentResponse struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	WorkoutID string     `json:"workoutId"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// MapAssignmentToResponse converts a domain.Assignment to its DTO.
func MapAssignmentToResponse(a *domain.Assignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:        a.ID.Hex(),
		StudentID: a.StudentID.Hex(),
		WorkoutID: a.WorkoutID.Hex(),
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// --- Handler Methods ---

// AssignWorkout godoc
// @Summary Assign a workout template to a student
// @Description A student can have at most one active assignment per workout.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body AssignWorkoutRequest true "Student, workout and dates"
// @Success 201 {object} AssignmentResponse
// @Failure 404 {object} gin.H "Student or workout not found"
// @Failure 409 {object} gin.H "Active assignment already exists"
// @Router /assignments [post]
func (h *AssignmentHandler) AssignWorkout(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}

	var req AssignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid student ID format")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	assignment, err := h.assignmentService.AssignWorkout(c.Request.Context(), coachID, studentID, workoutID, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssignmentAlreadyActive):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign workout")
		}
		return
	}

	c.JSON(http.StatusCreated, MapAssignmentToResponse(assignment))
}

// GetStudentWorkouts godoc
// @Summary List a student's assignments with their workout headers
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {array} service.AssignmentDetail
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id}/workouts [get]
func (h *AssignmentHandler) GetStudentWorkouts(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.assignmentService.GetStudentWorkouts(c.Request.Context(), coachID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list student workouts")
		}
		return
	}

	c.JSON(http.StatusOK, details)
}

// FinishAssignment godoc
// @Summary Finish an active assignment
// @Description Finishing is one-way; a finished assignment cannot be reopened.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} gin.H "Assignment already finished"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /assignments/{id}/finish [patch]
func (h *AssignmentHandler) FinishAssignment(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.FinishAssignment(c.Request.Context(), coachID, assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssignmentAlreadyFinished):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to finish assignment")
		}
		return
	}

	c.JSON(http.StatusOK, MapAssignmentToResponse(assignment))
}
