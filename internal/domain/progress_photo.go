package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a photo uploaded for a measurement
// check-in. The actual file resides in S3.
type ProgressPhoto struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MeasurementID primitive.ObjectID `bson:"measurementId" json:"measurementId"` // Link back to the check-in
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`               // Student who the photo belongs to
	S3ObjectKey   string             `bson:"s3ObjectKey" json:"-"`               // The unique key (path/filename) in the S3 bucket - internal use
	FileName      string             `bson:"fileName" json:"fileName"`           // Original filename provided by the client
	ContentType   string             `bson:"contentType" json:"contentType"`     // MIME type (e.g., "image/jpeg")
	Size          int64              `bson:"size" json:"size"`                   // File size in bytes
	UploadedAt    time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
