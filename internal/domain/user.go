package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`           // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`        // Never expose this via JSON
	AvatarKey    string             `bson:"avatarKey,omitempty" json:"-"` // Object storage key, resolved to a presigned URL on read
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
