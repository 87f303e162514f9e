package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is one body-measurement check-in for a student. The history is
// append-only: rows are created per check-in and never updated afterwards.
type Measurement struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Weight  float64            `bson:"weight,omitempty" json:"weight,omitempty"`   // kg
	Height  float64            `bson:"height,omitempty" json:"height,omitempty"`   // m
	BodyFat float64            `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"` // percentage
	TakenAt time.Time          `bson:"takenAt" json:"takenAt"`                     // Defaults to creation time

	// Optional progress photo attached to this check-in.
	PhotoID   *primitive.ObjectID `bson:"photoId,omitempty" json:"photoId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
