package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise belongs to exactly one Workout.
// Duration is optional; when nil the time for the exercise is estimated
// as Sets * Reps * SecondsPerRep.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Title     string             `bson:"title" json:"title"`
	Sets      int                `bson:"sets" json:"sets"`
	Reps      int                `bson:"reps" json:"reps"`
	Duration  *int               `bson:"duration,omitempty" json:"duration,omitempty"` // Seconds (pointer for nullability)
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SecondsPerRep is the fixed estimate used when an exercise has no
// explicit duration.
const SecondsPerRep = 3

// EstimatedSeconds returns the time contribution of the exercise.
func (e *Exercise) EstimatedSeconds() int {
	if e.Duration != nil {
		return *e.Duration
	}
	return e.Sets * e.Reps * SecondsPerRep
}
