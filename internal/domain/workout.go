package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a reusable workout template built by a coach. It stays
// independent of any student until assigned via an Assignment.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"` // Owning coach
	Name        string             `bson:"name" json:"name"`       // e.g., "Treino A"
	Objective   string             `bson:"objective,omitempty" json:"objective,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise links an Exercise into a Workout with the prescription for
// that slot. The (WorkoutID, ExerciseID) pair is the lookup identity for
// updates and removals; Sequence defines the display order within a workout.
type WorkoutExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sequence    int                `bson:"sequence" json:"sequence"`
	Sets        int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        string             `bson:"reps,omitempty" json:"reps,omitempty"` // String to allow ranges like "10-12" or "Falha"
	RestSeconds int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Weight      *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
