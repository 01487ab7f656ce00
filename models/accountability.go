package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Penalty severities, ordered light < moderate < severe
const (
	SeverityLight    = "light"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Penalty is an embedded record of a missed workout (or manual assignment).
// Resolution is one-way: unresolved -> resolved.
type Penalty struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AssignedDate time.Time          `bson:"assignedDate" json:"assignedDate"`
	WorkoutDate  time.Time          `bson:"workoutDate" json:"workoutDate"`
	PenaltyType  string             `bson:"penaltyType" json:"penaltyType"` // e.g. "missed_workout"
	Severity     string             `bson:"severity" json:"severity"`
	Resolved     bool               `bson:"resolved" json:"resolved"`
	ResolvedDate *time.Time         `bson:"resolvedDate,omitempty" json:"resolvedDate,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// WeeklyStat summarizes one week of sessions; weeks start Monday.
type WeeklyStat struct {
	WeekStart         time.Time `bson:"weekStart" json:"weekStart"`
	WorkoutsPlanned   int       `bson:"workoutsPlanned" json:"workoutsPlanned"`
	WorkoutsCompleted int       `bson:"workoutsCompleted" json:"workoutsCompleted"`
	WorkoutsMissed    int       `bson:"workoutsMissed" json:"workoutsMissed"`
	CompletionRate    float64   `bson:"completionRate" json:"completionRate"`
}

// StreakInfo mirrors the gamification streak fields but is tracked
// independently for accountability purposes.
type StreakInfo struct {
	Current         int        `bson:"current" json:"current"`
	Longest         int        `bson:"longest" json:"longest"`
	LastWorkoutDate *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
}

// AccountabilityRecord holds one user's streak state, penalty history and
// weekly completion statistics.
type AccountabilityRecord struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID                 primitive.ObjectID `bson:"userId" json:"userId"`
	Streak                 StreakInfo         `bson:"streak" json:"streak"`
	Penalties              []Penalty          `bson:"penalties" json:"penalties"`
	WeeklyStats            []WeeklyStat       `bson:"weeklyStats" json:"weeklyStats"`
	TotalWorkoutsCompleted int                `bson:"totalWorkoutsCompleted" json:"totalWorkoutsCompleted"`
	TotalWorkoutsMissed    int                `bson:"totalWorkoutsMissed" json:"totalWorkoutsMissed"`
	TotalPenalties         int                `bson:"totalPenalties" json:"totalPenalties"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidSeverity(s string) bool {
	return s == SeverityLight || s == SeverityModerate || s == SeveritySevere
}
