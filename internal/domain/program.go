package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a named, leveled collection of workouts.
// Programs are created by the seeding process and are read-only to the API.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Level       string             `bson:"level" json:"level"` // e.g., "Beginner", "Intermediate", "Advanced"
	Duration    string             `bson:"duration,omitempty" json:"duration,omitempty"` // e.g., "4 weeks"
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
