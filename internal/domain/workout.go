package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a single session within a Program, ordered by Day.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	Title     string             `bson:"title" json:"title"`
	Day       int                `bson:"day" json:"day"`           // Ordering key within the program
	RestTime  int                `bson:"restTime" json:"restTime"` // Rest between exercises, in seconds
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
