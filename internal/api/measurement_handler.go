package api

import (
	"errors"
	"net/http"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/service"

	"github.com/gin-gonic/gin"
)

// MeasurementHandler holds the measurement service dependency.
type MeasurementHandler struct {
	measurementService service.MeasurementService
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// --- DTOs ---

type CreateMeasurementRequest struct {
	Weight  float64    `json:"weight" binding:"omitempty,gt=0"`
	Height  float64    `json:"height" binding:"omitempty,gt=0"`
	BodyFat float64    `json:"bodyFat" binding:"omitempty,gte=0,lte=100"`
	TakenAt *time.Time `json:"takenAt"` // Defaults to now when omitted
}

type MeasurementResponse struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Weight  float64   `json:"weight,omitempty"`
	Height  float64   `json:"height,omitempty"`
	BodyFat float64   `json:"bodyFat,omitempty"`
	TakenAt time.Time `json:"takenAt"`
	PhotoID *string   `json:"photoId,omitempty"`
}

// RequestPhotoUploadRequest asks for a presigned PUT URL for a progress photo.
type RequestPhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ConfirmPhotoUploadRequest reports a completed S3 upload.
type ConfirmPhotoUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size" binding:"omitempty,gte=0"`
}

// MapMeasurementToResponse converts a domain.Measurement to its DTO.
func MapMeasurementToResponse(m *domain.Measurement) MeasurementResponse {
	if m == nil {
		return MeasurementResponse{}
	}
	resp := MeasurementResponse{
		ID:      m.ID.Hex(),
		UserID:  m.UserID.Hex(),
		Weight:  m.Weight,
		Height:  m.Height,
		BodyFat: m.BodyFat,
		TakenAt: m.TakenAt,
	}
	if m.PhotoID != nil {
		photoIDHex := m.PhotoID.Hex()
		resp.PhotoID = &photoIDHex
	}
	return resp
}

// MapMeasurementsToResponse converts a slice of measurements.
func MapMeasurementsToResponse(measurements []domain.Measurement) []MeasurementResponse {
	responses := make([]MeasurementResponse, len(measurements))
	for i := range measurements {
		responses[i] = MapMeasurementToResponse(&measurements[i])
	}
	return responses
}

// measurementErrorStatus translates measurement service errors into HTTP
// status codes; shared by all the handlers below.
func measurementErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrMeasurementNotFound),
		errors.Is(err, service.ErrNoMeasurements),
		errors.Is(err, service.ErrPhotoNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrPhotoAlreadyAttached):
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, false
	}
}

// --- Handler Methods ---

// CreateMeasurement godoc
// @Summary Record a new check-in for a student
// @Tags Measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param measurement body CreateMeasurementRequest true "Measurement values"
// @Success 201 {object} MeasurementResponse
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id}/measurements [post]
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreateMeasurementInput{
		Weight:  req.Weight,
		Height:  req.Height,
		BodyFat: req.BodyFat,
	}
	if req.TakenAt != nil {
		input.TakenAt = *req.TakenAt
	}

	measurement, err := h.measurementService.CreateMeasurement(c.Request.Context(), coachID, studentID, input)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record measurement")
		}
		return
	}

	c.JSON(http.StatusCreated, MapMeasurementToResponse(measurement))
}

// ListMeasurements godoc
// @Summary List a student's measurement history, newest first
// @Tags Measurements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {array} MeasurementResponse
// @Failure 404 {object} gin.H "Student not found"
// @Router /students/{id}/measurements [get]
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	measurements, err := h.measurementService.ListMeasurements(c.Request.Context(), coachID, studentID)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list measurements")
		}
		return
	}

	c.JSON(http.StatusOK, MapMeasurementsToResponse(measurements))
}

// LatestMeasurement godoc
// @Summary Get a student's most recent measurement
// @Description Answers 404 with an explicit message when the history is empty.
// @Tags Measurements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} MeasurementResponse
// @Failure 404 {object} gin.H "Student not found / no measurement found"
// @Router /students/{id}/measurements/latest [get]
func (h *MeasurementHandler) LatestMeasurement(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	measurement, err := h.measurementService.LatestMeasurement(c.Request.Context(), coachID, studentID)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load measurement")
		}
		return
	}

	c.JSON(http.StatusOK, MapMeasurementToResponse(measurement))
}

// RequestPhotoUpload godoc
// @Summary Request a presigned upload URL for a progress photo
// @Tags Measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param measurementId path string true "Measurement ID"
// @Param request body RequestPhotoUploadRequest true "Content type of the photo"
// @Success 200 {object} service.PhotoUploadURLResponse
// @Failure 409 {object} gin.H "Measurement already has a photo"
// @Router /students/{id}/measurements/{measurementId}/photo [post]
func (h *MeasurementHandler) RequestPhotoUpload(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	measurementID, ok := parseIDParam(c, "measurementId")
	if !ok {
		return
	}

	var req RequestPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.measurementService.RequestPhotoUploadURL(c.Request.Context(), coachID, studentID, measurementID, req.ContentType)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else if errors.Is(err, service.ErrUploadURLError) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload godoc
// @Summary Confirm a completed progress photo upload
// @Tags Measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param measurementId path string true "Measurement ID"
// @Param request body ConfirmPhotoUploadRequest true "Uploaded object details"
// @Success 201 {object} domain.ProgressPhoto
// @Router /students/{id}/measurements/{measurementId}/photo [put]
func (h *MeasurementHandler) ConfirmPhotoUpload(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	measurementID, ok := parseIDParam(c, "measurementId")
	if !ok {
		return
	}

	var req ConfirmPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	photo, err := h.measurementService.ConfirmPhotoUpload(c.Request.Context(), coachID, studentID, measurementID,
		req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm photo upload")
		}
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// GetPhotoDownloadURL godoc
// @Summary Get a presigned download URL for a measurement's progress photo
// @Tags Measurements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param measurementId path string true "Measurement ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "No photo attached"
// @Router /students/{id}/measurements/{measurementId}/photo [get]
func (h *MeasurementHandler) GetPhotoDownloadURL(c *gin.Context) {
	coachID, ok := getCallerID(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	measurementID, ok := parseIDParam(c, "measurementId")
	if !ok {
		return
	}

	url, err := h.measurementService.GetPhotoDownloadURL(c.Request.Context(), coachID, studentID, measurementID)
	if err != nil {
		if status, known := measurementErrorStatus(err); known {
			abortWithError(c, status, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
