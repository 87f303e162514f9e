package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the behavior the mongo
// implementations promise: sentinel errors, unique indexes, default
// timestamps and sort orders.

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	current, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	updated := *user
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if updated.PasswordHash == "" {
		updated.PasswordHash = current.PasswordHash
	}
	r.users[user.ID] = &updated
	return nil
}

func (r *fakeUserRepo) GetStudentsByCoachID(ctx context.Context, coachID primitive.ObjectID, filter repository.StudentFilter) ([]domain.User, error) {
	var students []domain.User
	for _, user := range r.users {
		if !user.IsStudent() || user.CoachID == nil || *user.CoachID != coachID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(user.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		students = append(students, *user)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (r *fakeUserRepo) CountActiveStudents(ctx context.Context, coachID primitive.ObjectID) (int64, error) {
	ids, err := r.GetActiveStudentIDs(ctx, coachID)
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (r *fakeUserRepo) GetActiveStudentIDs(ctx context.Context, coachID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, user := range r.users {
		if user.IsStudent() && user.IsActive() && user.CoachID != nil && *user.CoachID == coachID {
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

// --- Exercises ---

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.exercises[id] = &stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *exercise
	return &copied, nil
}

func (r *fakeExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, exercise := range r.exercises {
		if filter.Name != "" && !strings.Contains(strings.ToLower(exercise.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.MuscleGroup != "" && exercise.MuscleGroup != filter.MuscleGroup {
			continue
		}
		out = append(out, *exercise)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	updated := *exercise
	updated.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = &updated
	return nil
}

func (r *fakeExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// --- Workouts ---

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *workout
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.workouts[id] = &stored
	return id, nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *workout
	return &copied, nil
}

func (r *fakeWorkoutRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID, nameFilter string) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, workout := range r.workouts {
		if workout.CoachID != coachID {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(workout.Name), strings.ToLower(nameFilter)) {
			continue
		}
		out = append(out, *workout)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	updated := *workout
	updated.UpdatedAt = time.Now().UTC()
	r.workouts[workout.ID] = &updated
	return nil
}

// --- Workout exercises ---

type fakeWorkoutExerciseRepo struct {
	items map[primitive.ObjectID]*domain.WorkoutExercise
}

func newFakeWorkoutExerciseRepo() *fakeWorkoutExerciseRepo {
	return &fakeWorkoutExerciseRepo{items: make(map[primitive.ObjectID]*domain.WorkoutExercise)}
}

func (r *fakeWorkoutExerciseRepo) Create(ctx context.Context, item *domain.WorkoutExercise) (primitive.ObjectID, error) {
	for _, existing := range r.items {
		if existing.WorkoutID == item.WorkoutID && existing.ExerciseID == item.ExerciseID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *item
	stored.ID = id
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.items[id] = &stored
	return id, nil
}

func (r *fakeWorkoutExerciseRepo) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	var out []domain.WorkoutExercise
	for _, item := range r.items {
		if item.WorkoutID == workoutID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeWorkoutExerciseRepo) GetByWorkoutAndExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExercise, error) {
	for _, item := range r.items {
		if item.WorkoutID == workoutID && item.ExerciseID == exerciseID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutExerciseRepo) Update(ctx context.Context, item *domain.WorkoutExercise) error {
	if _, ok := r.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	updated := *item
	updated.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = &updated
	return nil
}

func (r *fakeWorkoutExerciseRepo) Delete(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	for id, item := range r.items {
		if item.WorkoutID == workoutID && item.ExerciseID == exerciseID {
			delete(r.items, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Assignments ---

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]*domain.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]*domain.Assignment)}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	// Same partial unique constraint the mongo index enforces.
	if assignment.Status == domain.AssignmentActive {
		for _, existing := range r.assignments {
			if existing.Status == domain.AssignmentActive &&
				existing.StudentID == assignment.StudentID &&
				existing.WorkoutID == assignment.WorkoutID {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	id := primitive.NewObjectID()
	stored := *assignment
	stored.ID = id
	now := time.Now().UTC()
	if stored.StartDate.IsZero() {
		stored.StartDate = now
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.assignments[id] = &stored
	assignment.StartDate = stored.StartDate
	return id, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *assignment
	return &copied, nil
}

func (r *fakeAssignmentRepo) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, assignment := range r.assignments {
		if assignment.StudentID == studentID {
			out = append(out, *assignment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *fakeAssignmentRepo) GetActiveByStudentAndWorkout(ctx context.Context, studentID, workoutID primitive.ObjectID) (*domain.Assignment, error) {
	for _, assignment := range r.assignments {
		if assignment.Status == domain.AssignmentActive &&
			assignment.StudentID == studentID && assignment.WorkoutID == workoutID {
			copied := *assignment
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, assignment *domain.Assignment) error {
	if _, ok := r.assignments[assignment.ID]; !ok {
		return repository.ErrNotFound
	}
	updated := *assignment
	updated.UpdatedAt = time.Now().UTC()
	r.assignments[assignment.ID] = &updated
	return nil
}

func (r *fakeAssignmentRepo) CountActiveByStudentIDs(ctx context.Context, studentIDs []primitive.ObjectID) (int64, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		idSet[id] = struct{}{}
	}
	var count int64
	for _, assignment := range r.assignments {
		if assignment.Status != domain.AssignmentActive {
			continue
		}
		if _, ok := idSet[assignment.StudentID]; ok {
			count++
		}
	}
	return count, nil
}

// --- Measurements ---

type fakeMeasurementRepo struct {
	measurements map[primitive.ObjectID]*domain.Measurement
}

func newFakeMeasurementRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{measurements: make(map[primitive.ObjectID]*domain.Measurement)}
}

func (r *fakeMeasurementRepo) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *measurement
	stored.ID = id
	now := time.Now().UTC()
	if stored.TakenAt.IsZero() {
		stored.TakenAt = now
	}
	stored.CreatedAt = now
	r.measurements[id] = &stored
	measurement.TakenAt = stored.TakenAt
	return id, nil
}

func (r *fakeMeasurementRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Measurement, error) {
	measurement, ok := r.measurements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *measurement
	return &copied, nil
}

func (r *fakeMeasurementRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Measurement, error) {
	var out []domain.Measurement
	for _, measurement := range r.measurements {
		if measurement.UserID == userID {
			out = append(out, *measurement)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	return out, nil
}

func (r *fakeMeasurementRepo) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error) {
	history, _ := r.GetByUserID(ctx, userID)
	if len(history) == 0 {
		return nil, repository.ErrNotFound
	}
	latest := history[0]
	return &latest, nil
}

func (r *fakeMeasurementRepo) SetPhotoID(ctx context.Context, measurementID, photoID primitive.ObjectID) error {
	measurement, ok := r.measurements[measurementID]
	if !ok {
		return repository.ErrNotFound
	}
	measurement.PhotoID = &photoID
	return nil
}

func (r *fakeMeasurementRepo) DistinctUserIDsSince(ctx context.Context, userIDs []primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(userIDs))
	for _, id := range userIDs {
		idSet[id] = struct{}{}
	}
	seen := make(map[primitive.ObjectID]struct{})
	for _, measurement := range r.measurements {
		if _, ok := idSet[measurement.UserID]; !ok {
			continue
		}
		if measurement.TakenAt.Before(since) {
			continue
		}
		seen[measurement.UserID] = struct{}{}
	}
	out := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}

// --- Progress photos ---

type fakePhotoRepo struct {
	photos map[primitive.ObjectID]*domain.ProgressPhoto
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[primitive.ObjectID]*domain.ProgressPhoto)}
}

func (r *fakePhotoRepo) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	for _, existing := range r.photos {
		if existing.MeasurementID == photo.MeasurementID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *photo
	stored.ID = id
	r.photos[id] = &stored
	return id, nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	photo, ok := r.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *photo
	return &copied, nil
}

func (r *fakePhotoRepo) GetByMeasurementID(ctx context.Context, measurementID primitive.ObjectID) (*domain.ProgressPhoto, error) {
	for _, photo := range r.photos {
		if photo.MeasurementID == measurementID {
			copied := *photo
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- File storage ---

type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}

func (fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}
