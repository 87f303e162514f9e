package api

import (
	"errors"
	"net/http"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"
	"dmaraujo/trainerhub/internal/service"

	"github.com/gin-gonic/gin"
)

// StudentHandler holds the student roster service dependency.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// --- DTOs ---

type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"omitempty,min=6"` // Provisional default when omitted
	Phone     string `json:"phone"`
	Objective string `json:"objective"`
}

type UpdateStudentRequest struct {
	Name      *string            `json:"name"`
	Email     *string            `json:"email" binding:"omitempty,email"`
	Phone     *string            `json:"phone"`
	Objective *string            `json:"objective"`
	Status    *domain.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// --- Handler Methods ---

// CreateStudent godoc
// @Summary Enroll a new student in the caller's roster
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param student body CreateStudentRequest true "Student details"
// @Success 201 {object} UserResponse
// @Failure 409 {object} gin.H "Email already in use"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}

	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), coachID, service.CreateStudentInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Objective: req.Objective,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create student")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(student))
}

// ListStudents godoc
// @Summary List the caller's students
// @Description Supports optional partial name and exact status filters.
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param name query string false "Partial, case-insensitive name filter"
// @Param status query string false "Exact status filter (active/inactive)"
// @Success 200 {array} UserResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}

	filter := repository.StudentFilter{
		Name:   c.Query("name"),
		Status: domain.UserStatus(c.Query("status")),
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), coachID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list students")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(students))
}

// GetStudent godoc
// @Summary Get one of the caller's students by ID
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), coachID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load student")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// UpdateStudent godoc
// @Summary Partially update one of the caller's students
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param student body UpdateStudentRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), coachID, studentID, service.UpdateStudentInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Objective: req.Objective,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update student")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// DeleteStudent godoc
// @Summary Soft-delete one of the caller's students
// @Description Flips the status to inactive; the row and its history remain.
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), coachID, studentID); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete student")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student deactivated"})
}
