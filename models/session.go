package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout session statuses
const (
	SessionPlanned    = "planned"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionSkipped    = "skipped"
)

// WorkoutSession is a scheduled workout instance. Completion events drive
// streak/XP updates; overdue planned sessions drive penalty assignment.
type WorkoutSession struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID        *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Name          string              `bson:"name" json:"name"`
	Status        string              `bson:"status" json:"status"`
	ScheduledDate time.Time           `bson:"scheduledDate" json:"scheduledDate"`
	CompletedAt   *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutPlan carries the difficulty tag consumed by penalty severity
// scoring. Plan generation itself happens elsewhere.
type WorkoutPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Difficulty string             `bson:"difficulty" json:"difficulty"` // beginner, intermediate, advanced
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
