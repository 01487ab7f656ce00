package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a user entity. The gamification sub-document is created
// lazily on first access; Version is the optimistic-lock token incremented
// on every successful gamification mutation.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Gamification *GamificationState `bson:"gamification,omitempty" json:"gamification,omitempty"`
	Version      int64              `bson:"version" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
