package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentFinished AssignmentStatus = "finished" // Terminal; the transition is one-way
)

// Assignment connects a Workout template to a Student.
// At most one active assignment may exist per (student, workout) pair;
// the assignments collection carries a partial unique index enforcing it.
type Assignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"` // Set when finished (pointer for nullability)
	Status    AssignmentStatus   `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (a *Assignment) IsFinished() bool {
	return a.Status == AssignmentFinished
}
