package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamificationState is embedded in the user document. All mutations go
// through the gamification service's conditional writes; gems can never go
// negative because the decrement is guarded server-side.
type GamificationState struct {
	XP                         int64      `bson:"xp" json:"xp"`
	Level                      int        `bson:"level" json:"level"`
	TotalWorkoutsCompleted     int        `bson:"totalWorkoutsCompleted" json:"totalWorkoutsCompleted"`
	CurrentStreak              int        `bson:"currentStreak" json:"currentStreak"`
	LongestStreak              int        `bson:"longestStreak" json:"longestStreak"`
	LastWorkoutDate            *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
	Achievements               []string   `bson:"achievements" json:"achievements"`
	TotalPRs                   int        `bson:"totalPrs" json:"totalPrs"`
	StreakFreezesAvailable     int        `bson:"streakFreezesAvailable" json:"streakFreezesAvailable"`
	StreakFreezesUsedThisMonth int        `bson:"streakFreezesUsedThisMonth" json:"streakFreezesUsedThisMonth"`
	Gems                       int64      `bson:"gems" json:"gems"`
	TotalGemsEarned            int64      `bson:"totalGemsEarned" json:"totalGemsEarned"`
	PurchasedItems             []string   `bson:"purchasedItems" json:"purchasedItems"`
	MilestoneRewardsClaimed    []string   `bson:"milestoneRewardsClaimed" json:"milestoneRewardsClaimed"`
}

// PersonalRecord stores a single best for (user, exercise, record type).
// Immutable once created, except for deletion by the owner.
type PersonalRecord struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID  `bson:"userId" json:"userId"`
	ExerciseName     string              `bson:"exerciseName" json:"exerciseName"` // normalized lowercase
	Category         string              `bson:"category" json:"category"`
	RecordType       string              `bson:"recordType" json:"recordType"` // weight, reps, time, distance
	Value            float64             `bson:"value" json:"value"`
	Unit             string              `bson:"unit" json:"unit"`
	PreviousValue    *float64            `bson:"previousValue,omitempty" json:"previousValue,omitempty"`
	AchievedAt       time.Time           `bson:"achievedAt" json:"achievedAt"`
	WorkoutSessionID *primitive.ObjectID `bson:"workoutSessionId,omitempty" json:"workoutSessionId,omitempty"`
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// GamificationEvent is broadcast over the websocket hub
type GamificationEvent struct {
	Type        string    `json:"type"` // "xp_awarded", "level_up", "achievement_unlocked", "item_purchased", "penalty_assigned"
	UserID      string    `json:"userId"`
	XPAwarded   int64     `json:"xpAwarded,omitempty"`
	NewLevel    int       `json:"newLevel,omitempty"`
	Achievement string    `json:"achievement,omitempty"`
	ItemID      string    `json:"itemId,omitempty"`
	Severity    string    `json:"severity,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
