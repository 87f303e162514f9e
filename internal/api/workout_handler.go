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

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required"`
	Objective   string `json:"objective"`
	Description string `json:"description"`
}

type UpdateWorkoutRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Objective   *string `json:"objective"`
	Description *string `json:"description"`
}

type AddWorkoutExerciseRequest struct {
	ExerciseID  string   `json:"exerciseId" binding:"required"`
	Sequence    int      `json:"sequence" binding:"required,gt=0"`
	Sets        int      `json:"sets" binding:"omitempty,gt=0"`
	Reps        string   `json:"reps"`
	RestSeconds int      `json:"restSeconds" binding:"omitempty,gte=0"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0"`
	Notes       string   `json:"notes"`
}

type UpdateWorkoutExerciseRequest struct {
	Sequence    *int     `json:"sequence" binding:"omitempty,gt=0"`
	Sets        *int     `json:"sets" binding:"omitempty,gt=0"`
	Reps        *string  `json:"reps"`
	RestSeconds *int     `json:"restSeconds" binding:"omitempty,gte=0"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

type WorkoutResponse struct {
	ID          string    `json:"id"`
	CoachID     string    `json:"coachId"`
	Name        string    `json:"name"`
	Objective   string    `json:"objective,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		CoachID:     w.CoachID.Hex(),
		Name:        w.Name,
		Objective:   w.Objective,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of workouts.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a new workout template
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout header"
// @Success 201 {object} WorkoutResponse
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), coachID, req.Name, req.Objective, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List the calling coach's workout templates
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name (case-insensitive substring)"
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), coachID, c.Query("name"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// UpdateWorkout godoc
// @Summary Update a workout template's header
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Fields to update"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), coachID, workoutID, service.UpdateWorkoutInput{
		Name:        req.Name,
		Objective:   req.Objective,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ListWorkoutExercises godoc
// @Summary List a workout's exercises in sheet order
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {array} service.WorkoutExerciseDetail
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId}/exercises [get]
func (h *WorkoutHandler) ListWorkoutExercises(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}

	items, err := h.workoutService.ListWorkoutExercises(c.Request.Context(), coachID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list workout exercises")
		}
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddExerciseToWorkout godoc
// @Summary Add a catalog exercise to a workout with its prescription
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param exercise body AddWorkoutExerciseRequest true "Exercise and prescription"
// @Success 201 {object} domain.WorkoutExercise
// @Failure 404 {object} gin.H "Workout or exercise not found"
// @Failure 409 {object} gin.H "Exercise already in workout"
// @Router /workouts/{workoutId}/exercises [post]
func (h *WorkoutHandler) AddExerciseToWorkout(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}

	var req AddWorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	item, err := h.workoutService.AddExerciseToWorkout(c.Request.Context(), coachID, workoutID, service.AddWorkoutExerciseInput{
		ExerciseID:  exerciseID,
		Sequence:    req.Sequence,
		Sets:        req.Sets,
		Reps:        req.Reps,
		RestSeconds: req.RestSeconds,
		Weight:      req.Weight,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAlreadyInWorkout):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add exercise to workout")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateWorkoutExercise godoc
// @Summary Update the prescription of one workout exercise
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Param exercise body UpdateWorkoutExerciseRequest true "Fields to update"
// @Success 200 {object} domain.WorkoutExercise
// @Failure 404 {object} gin.H "Workout or exercise entry not found"
// @Router /workouts/{workoutId}/exercises/{exerciseId} [put]
func (h *WorkoutHandler) UpdateWorkoutExercise(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req UpdateWorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item, err := h.workoutService.UpdateWorkoutExercise(c.Request.Context(), coachID, workoutID, exerciseID, service.UpdateWorkoutExerciseInput{
		Sequence:    req.Sequence,
		Sets:        req.Sets,
		Reps:        req.Reps,
		RestSeconds: req.RestSeconds,
		Weight:      req.Weight,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrWorkoutExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout exercise")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveExerciseFromWorkout godoc
// @Summary Remove an exercise from a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Workout or exercise entry not found"
// @Router /workouts/{workoutId}/exercises/{exerciseId} [delete]
func (h *WorkoutHandler) RemoveExerciseFromWorkout(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	err := h.workoutService.RemoveExerciseFromWorkout(c.Request.Context(), coachID, workoutID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrWorkoutExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to remove exercise from workout")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exercise removed from workout"})
}
