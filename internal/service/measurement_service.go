package service

import (
	"context"
	"errors"
	"fmt"
	"path" // For constructing object keys
	"strings"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"
	"dmaraujo/trainerhub/internal/storage" // Import storage package

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// ErrNoMeasurements signals an empty history; distinct from an unknown
	// student so the API can answer with an explicit "no measurement found".
	ErrNoMeasurements       = errors.New("no measurement found for this student")
	ErrMeasurementNotFound  = errors.New("measurement not found")
	ErrPhotoNotFound        = errors.New("no photo attached to this measurement")
	ErrPhotoAlreadyAttached = errors.New("measurement already has a photo")
	ErrUploadURLError       = errors.New("failed to generate upload URL")
	ErrDownloadURLError     = errors.New("failed to generate download URL")
)

// CreateMeasurementInput carries one check-in. TakenAt defaults to now when
// zero.
type CreateMeasurementInput struct {
	Weight  float64
	Height  float64
	BodyFat float64
	TakenAt time.Time
}

// PhotoUploadURLResponse returns the presigned URL plus the object key the
// client must report back on confirm.
type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type MeasurementService interface {
	CreateMeasurement(ctx context.Context, coachID, studentID primitive.ObjectID, input CreateMeasurementInput) (*domain.Measurement, error)
	ListMeasurements(ctx context.Context, coachID, studentID primitive.ObjectID) ([]domain.Measurement, error)
	LatestMeasurement(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.Measurement, error)

	// Progress photo flow: request a presigned PUT URL, then confirm the
	// upload so the metadata row is created and linked.
	RequestPhotoUploadURL(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.ProgressPhoto, error)
	GetPhotoDownloadURL(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// measurementService implements the MeasurementService interface.
type measurementService struct {
	userRepo        repository.UserRepository
	measurementRepo repository.MeasurementRepository
	photoRepo       repository.ProgressPhotoRepository
	fileStorage     storage.FileStorage
}

// NewMeasurementService creates a new instance of measurementService.
func NewMeasurementService(
	userRepo repository.UserRepository,
	measurementRepo repository.MeasurementRepository,
	photoRepo repository.ProgressPhotoRepository,
	fileStorage storage.FileStorage,
) MeasurementService {
	return &measurementService{
		userRepo:        userRepo,
		measurementRepo: measurementRepo,
		photoRepo:       photoRepo,
		fileStorage:     fileStorage,
	}
}

// CreateMeasurement appends a check-in to an owned student's history.
func (s *measurementService) CreateMeasurement(ctx context.Context, coachID, studentID primitive.ObjectID, input CreateMeasurementInput) (*domain.Measurement, error) {
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}

	measurement := &domain.Measurement{
		UserID:  studentID,
		Weight:  input.Weight,
		Height:  input.Height,
		BodyFat: input.BodyFat,
		TakenAt: input.TakenAt, // Zero value becomes "now" in the repository
	}

	measurementID, err := s.measurementRepo.Create(ctx, measurement)
	if err != nil {
		return nil, err
	}
	measurement.ID = measurementID
	return measurement, nil
}

// ListMeasurements returns an owned student's full history, newest first.
func (s *measurementService) ListMeasurements(ctx context.Context, coachID, studentID primitive.ObjectID) ([]domain.Measurement, error) {
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}
	return s.measurementRepo.GetByUserID(ctx, studentID)
}

// LatestMeasurement returns the row with the maximum date, or
// ErrNoMeasurements when the history is empty.
func (s *measurementService) LatestMeasurement(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.Measurement, error) {
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}

	measurement, err := s.measurementRepo.GetLatestByUserID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoMeasurements
		}
		return nil, err
	}
	return measurement, nil
}

// === Progress photo flow ===

// getOwnedMeasurement resolves a measurement under the ownership guard: the
// student must belong to the coach and the measurement to the student.
func (s *measurementService) getOwnedMeasurement(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID) (*domain.Measurement, error) {
	if _, err := findOwnedStudent(ctx, s.userRepo, coachID, studentID); err != nil {
		return nil, err
	}

	measurement, err := s.measurementRepo.GetByID(ctx, measurementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	if measurement.UserID != studentID {
		return nil, ErrMeasurementNotFound
	}
	return measurement, nil
}

// RequestPhotoUploadURL generates a presigned PUT URL for a progress photo.
func (s *measurementService) RequestPhotoUploadURL(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	measurement, err := s.getOwnedMeasurement(ctx, coachID, studentID, measurementID)
	if err != nil {
		return nil, err
	}
	if measurement.PhotoID != nil {
		return nil, ErrPhotoAlreadyAttached
	}

	// Unique object key so re-uploads never clobber each other.
	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", studentID.Hex(), measurementID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &PhotoUploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhotoUpload records the photo metadata and links it to the
// measurement. Called AFTER the client has PUT the file to S3.
func (s *measurementService) ConfirmPhotoUpload(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.ProgressPhoto, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	measurement, err := s.getOwnedMeasurement(ctx, coachID, studentID, measurementID)
	if err != nil {
		return nil, err
	}
	if measurement.PhotoID != nil {
		return nil, ErrPhotoAlreadyAttached
	}

	photo := &domain.ProgressPhoto{
		MeasurementID: measurementID,
		UserID:        studentID,
		S3ObjectKey:   objectKey,
		FileName:      fileName,
		ContentType:   contentType,
		Size:          fileSize,
		UploadedAt:    time.Now().UTC(),
	}

	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID

	if err := s.measurementRepo.SetPhotoID(ctx, measurementID, photoID); err != nil {
		return nil, err
	}
	return photo, nil
}

// GetPhotoDownloadURL returns a presigned GET URL for a measurement's photo.
func (s *measurementService) GetPhotoDownloadURL(ctx context.Context, coachID, studentID, measurementID primitive.ObjectID) (string, error) {
	if _, err := s.getOwnedMeasurement(ctx, coachID, studentID, measurementID); err != nil {
		return "", err
	}

	photo, err := s.photoRepo.GetByMeasurementID(ctx, measurementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPhotoNotFound
		}
		return "", err
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return downloadURL, nil
}
