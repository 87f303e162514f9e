package service

import (
	"context"
	"errors"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	// ErrStudentNotFound covers both a genuinely missing student and one owned
	// by a different coach; not distinguishing the two avoids leaking that
	// the resource exists at all.
	ErrStudentNotFound = errors.New("student not found")
)

// Students created without an explicit password receive this provisional one
// and are expected to change it on first login.
const defaultStudentPassword = "trocar123"

// CreateStudentInput carries the fields a coach provides when enrolling a
// student. Password is optional.
type CreateStudentInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Objective string
}

// UpdateStudentInput carries a partial student update. Nil fields keep their
// current value.
type UpdateStudentInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Objective *string
	Status    *domain.UserStatus
}

// --- Service Interface ---
type StudentService interface {
	CreateStudent(ctx context.Context, coachID primitive.ObjectID, input CreateStudentInput) (*domain.User, error)
	ListStudents(ctx context.Context, coachID primitive.ObjectID, filter repository.StudentFilter) ([]domain.User, error)
	GetStudent(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.User, error)
	UpdateStudent(ctx context.Context, coachID, studentID primitive.ObjectID, input UpdateStudentInput) (*domain.User, error)
	DeleteStudent(ctx context.Context, coachID, studentID primitive.ObjectID) error
}

// --- Service Implementation ---

// studentService implements the StudentService interface.
type studentService struct {
	userRepo repository.UserRepository
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(userRepo repository.UserRepository) StudentService {
	return &studentService{userRepo: userRepo}
}

// findOwnedStudent is the centralized ownership guard: every entry point that
// touches a specific student goes through it (here and in the measurement and
// assignment services). A student owned by another coach is reported exactly
// like a missing one.
func findOwnedStudent(ctx context.Context, users repository.UserRepository, coachID, studentID primitive.ObjectID) (*domain.User, error) {
	student, err := users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsStudent() || student.CoachID == nil || *student.CoachID != coachID {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *studentService) getOwnedStudent(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.User, error) {
	return findOwnedStudent(ctx, s.userRepo, coachID, studentID)
}

// CreateStudent enrolls a new student in the caller's roster. The role is
// forced to student and the owning coach to the caller, regardless of input.
func (s *studentService) CreateStudent(ctx context.Context, coachID primitive.ObjectID, input CreateStudentInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, errors.New("student name and email cannot be empty")
	}
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required to create a student")
	}

	password := input.Password
	if password == "" {
		password = defaultStudentPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	student := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleStudent,
		Status:       domain.UserActive,
		Phone:        input.Phone,
		Objective:    input.Objective,
		CoachID:      &coachID,
	}

	studentID, err := s.userRepo.Create(ctx, student)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	student.ID = studentID

	student.PasswordHash = ""
	return student, nil
}

// ListStudents returns only the caller's students, never another coach's.
func (s *studentService) ListStudents(ctx context.Context, coachID primitive.ObjectID, filter repository.StudentFilter) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	students, err := s.userRepo.GetStudentsByCoachID(ctx, coachID, filter)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

// GetStudent retrieves a single student, ownership-guarded.
func (s *studentService) GetStudent(ctx context.Context, coachID, studentID primitive.ObjectID) (*domain.User, error) {
	student, err := s.getOwnedStudent(ctx, coachID, studentID)
	if err != nil {
		return nil, err
	}
	student.PasswordHash = ""
	return student, nil
}

// UpdateStudent merges the provided fields over an owned student's record.
func (s *studentService) UpdateStudent(ctx context.Context, coachID, studentID primitive.ObjectID, input UpdateStudentInput) (*domain.User, error) {
	student, err := s.getOwnedStudent(ctx, coachID, studentID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Email != nil {
		student.Email = *input.Email
	}
	if input.Phone != nil {
		student.Phone = *input.Phone
	}
	if input.Objective != nil {
		student.Objective = *input.Objective
	}
	if input.Status != nil {
		student.Status = *input.Status
	}

	if err := s.userRepo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	student.PasswordHash = ""
	return student, nil
}

// DeleteStudent is a soft delete: the status flips to inactive and the row
// stays so measurements and assignments keep their references. Deleting an
// already-inactive student succeeds again; the operation is idempotent.
func (s *studentService) DeleteStudent(ctx context.Context, coachID, studentID primitive.ObjectID) error {
	student, err := s.getOwnedStudent(ctx, coachID, studentID)
	if err != nil {
		return err
	}

	student.Status = domain.UserInactive
	if err := s.userRepo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
