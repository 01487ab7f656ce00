package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lumi/accountability"
	"lumi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MissedWorkoutDetector sweeps overdue sessions, marks them skipped,
// assigns severity-scored penalties and resets the affected streaks.
type MissedWorkoutDetector struct {
	sessions       *mongo.Collection
	plans          *mongo.Collection
	users          *mongo.Collection
	accountability *AccountabilityService
	overdueAfter   time.Duration
}

func NewMissedWorkoutDetector(database *mongo.Database, accountability *AccountabilityService, overdueAfter time.Duration) *MissedWorkoutDetector {
	if overdueAfter <= 0 {
		overdueAfter = 24 * time.Hour
	}
	return &MissedWorkoutDetector{
		sessions:       database.Collection("workout_sessions"),
		plans:          database.Collection("workout_plans"),
		users:          database.Collection("users"),
		accountability: accountability,
		overdueAfter:   overdueAfter,
	}
}

// SweepResult summarizes one detection run.
type SweepResult struct {
	Processed         int `json:"processed"`
	PenaltiesAssigned int `json:"penaltiesAssigned"`
	StreaksReset      int `json:"streaksReset"`
}

// Run scans sessions still planned or in progress whose scheduled date is
// past the overdue threshold. Failures are isolated per session: one
// user's error is logged and the sweep continues.
func (d *MissedWorkoutDetector) Run(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	cutoff := now.Add(-d.overdueAfter)

	cursor, err := d.sessions.Find(ctx, bson.M{
		"status":        bson.M{"$in": []string{models.SessionPlanned, models.SessionInProgress}},
		"scheduledDate": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var overdue []models.WorkoutSession
	if err := cursor.All(ctx, &overdue); err != nil {
		return nil, fmt.Errorf("failed to decode overdue sessions: %w", err)
	}

	result := &SweepResult{}
	// Reset each user's streak once even when several sessions lapsed
	streaksReset := make(map[string]bool)

	for _, session := range overdue {
		result.Processed++
		if err := d.processSession(ctx, session, now, result, streaksReset); err != nil {
			log.Printf("Missed-workout sweep: session %s (user %s) failed: %v",
				session.ID.Hex(), session.UserID.Hex(), err)
		}
	}

	log.Printf("Missed-workout sweep: processed=%d penalties=%d streaksReset=%d",
		result.Processed, result.PenaltiesAssigned, result.StreaksReset)
	return result, nil
}

func (d *MissedWorkoutDetector) processSession(ctx context.Context, session models.WorkoutSession, now time.Time, result *SweepResult, streaksReset map[string]bool) error {
	hoursOverdue := now.Sub(session.ScheduledDate).Hours()
	severity := accountability.CalculatePenaltySeverity(d.planDifficulty(ctx, session), hoursOverdue)

	// Re-check the status in the filter so a session completed while the
	// sweep runs is left alone
	res, err := d.sessions.UpdateOne(ctx,
		bson.M{
			"_id":    session.ID,
			"status": bson.M{"$in": []string{models.SessionPlanned, models.SessionInProgress}},
		},
		bson.M{"$set": bson.M{
			"status":    models.SessionSkipped,
			"notes":     fmt.Sprintf("Automatically marked as missed (%.0f hours overdue)", hoursOverdue),
			"updatedAt": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark session skipped: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil
	}

	description := fmt.Sprintf("Missed workout %q scheduled for %s",
		session.Name, session.ScheduledDate.Format("2006-01-02"))
	if _, err := d.accountability.CreatePenalty(ctx, session.UserID, session.ScheduledDate, severity, description); err != nil {
		return err
	}
	result.PenaltiesAssigned++

	if _, err := d.records().UpdateOne(ctx,
		bson.M{"userId": session.UserID},
		bson.M{"$inc": bson.M{"totalWorkoutsMissed": 1}},
	); err != nil {
		return fmt.Errorf("failed to bump missed total: %w", err)
	}

	if err := d.accountability.RefreshWeeklyStat(ctx, session.UserID, session.ScheduledDate); err != nil {
		log.Printf("Missed-workout sweep: weekly stat refresh for user %s failed: %v", session.UserID.Hex(), err)
	}

	if !streaksReset[session.UserID.Hex()] {
		streaksReset[session.UserID.Hex()] = true

		frozen, err := d.consumeStreakFreeze(ctx, session.UserID)
		if err != nil {
			return err
		}
		if frozen {
			log.Printf("Streak freeze consumed for user %s", session.UserID.Hex())
			return nil
		}

		if err := d.resetUserStreaks(ctx, session.UserID); err != nil {
			return err
		}
		result.StreaksReset++
	}
	return nil
}

// consumeStreakFreeze spends one available freeze, protecting the streak.
// The availability check lives in the filter so two sweeps cannot spend
// the same freeze twice.
func (d *MissedWorkoutDetector) consumeStreakFreeze(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	res, err := d.users.UpdateOne(ctx,
		bson.M{"_id": userID, "gamification.streakFreezesAvailable": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{
				"gamification.streakFreezesAvailable":     -1,
				"gamification.streakFreezesUsedThisMonth": 1,
				"version":                                 1,
			},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to consume streak freeze: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// planDifficulty looks up the session's plan difficulty, best-effort.
func (d *MissedWorkoutDetector) planDifficulty(ctx context.Context, session models.WorkoutSession) string {
	if session.PlanID == nil {
		return ""
	}
	var plan models.WorkoutPlan
	err := d.plans.FindOne(ctx, bson.M{"_id": *session.PlanID}).Decode(&plan)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("Failed to load plan %s: %v", session.PlanID.Hex(), err)
		}
		return ""
	}
	return plan.Difficulty
}

// resetUserStreaks zeroes the current streak in both aggregates. Longest
// streaks are never reduced.
func (d *MissedWorkoutDetector) resetUserStreaks(ctx context.Context, userID primitive.ObjectID) error {
	if err := d.accountability.resetStreak(ctx, userID); err != nil {
		return err
	}

	_, err := d.users.UpdateOne(ctx,
		bson.M{"_id": userID, "gamification": bson.M{"$ne": nil}},
		bson.M{
			"$set": bson.M{"gamification.currentStreak": 0, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to reset gamification streak: %w", err)
	}
	return nil
}

func (d *MissedWorkoutDetector) records() *mongo.Collection {
	return d.accountability.records
}
