package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionDayFormat is the layout of WorkoutProgress.CompletedOn.
// Days are server-local, midnight to midnight.
const CompletionDayFormat = "2006-01-02"

// WorkoutProgress is one immutable completion event: a user finished a
// workout at a given instant. At most one row exists per
// (user, workout, calendar day); the store enforces this with a unique
// index on (userId, workoutId, completedOn).
type WorkoutProgress struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
	CompletedOn string             `bson:"completedOn" json:"-"` // CompletedAt's calendar day, CompletionDayFormat
}
