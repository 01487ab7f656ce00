package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lumi/gamification"
	"lumi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountabilityService manages the per-user ledger of streak state,
// penalties and weekly completion statistics.
type AccountabilityService struct {
	records  *mongo.Collection
	sessions *mongo.Collection
}

func NewAccountabilityService(database *mongo.Database) *AccountabilityService {
	return &AccountabilityService{
		records:  database.Collection("accountability_records"),
		sessions: database.Collection("workout_sessions"),
	}
}

// EnsureRecord returns the user's ledger, creating a zeroed one if absent.
// The upsert keyed on the unique userId index keeps concurrent first
// accesses from creating duplicates.
func (s *AccountabilityService) EnsureRecord(ctx context.Context, userID primitive.ObjectID) (*models.AccountabilityRecord, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.AccountabilityRecord
	err := s.records.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$setOnInsert": bson.M{
				"userId":                 userID,
				"streak":                 models.StreakInfo{},
				"penalties":              []models.Penalty{},
				"weeklyStats":            []models.WeeklyStat{},
				"totalWorkoutsCompleted": 0,
				"totalWorkoutsMissed":    0,
				"totalPenalties":         0,
				"createdAt":              now,
				"updatedAt":              now,
			},
		},
		opts,
	).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to load accountability record: %w", err)
	}
	return &record, nil
}

// CreatePenalty appends a penalty to the user's ledger.
func (s *AccountabilityService) CreatePenalty(ctx context.Context, userID primitive.ObjectID, workoutDate time.Time, severity, description string) (*models.Penalty, error) {
	if _, err := s.EnsureRecord(ctx, userID); err != nil {
		return nil, err
	}

	penalty := models.Penalty{
		ID:           primitive.NewObjectID(),
		AssignedDate: time.Now(),
		WorkoutDate:  workoutDate,
		PenaltyType:  "missed_workout",
		Severity:     severity,
		Description:  description,
	}

	_, err := s.records.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$push": bson.M{"penalties": penalty},
			"$inc":  bson.M{"totalPenalties": 1},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create penalty: %w", err)
	}
	return &penalty, nil
}

// ResolvePenalty transitions one penalty from unresolved to resolved.
// Not-found covers both an unknown penalty id and one belonging to a
// different user; a penalty already resolved also reports not-found since
// the transition is one-way.
func (s *AccountabilityService) ResolvePenalty(ctx context.Context, userID, penaltyID primitive.ObjectID) ([]models.Penalty, error) {
	now := time.Now()
	res, err := s.records.UpdateOne(ctx,
		bson.M{
			"userId": userID,
			"penalties": bson.M{"$elemMatch": bson.M{
				"_id":      penaltyID,
				"resolved": false,
			}},
		},
		bson.M{
			"$set": bson.M{
				"penalties.$.resolved":     true,
				"penalties.$.resolvedDate": now,
				"updatedAt":                now,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve penalty: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrPenaltyNotFound
	}

	record, err := s.EnsureRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record.Penalties, nil
}

// ListPenalties returns the user's penalties, optionally filtered by
// resolved state and severity.
func (s *AccountabilityService) ListPenalties(ctx context.Context, userID primitive.ObjectID, resolved *bool, severity string) ([]models.Penalty, error) {
	record, err := s.EnsureRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	penalties := make([]models.Penalty, 0, len(record.Penalties))
	for _, p := range record.Penalties {
		if resolved != nil && p.Resolved != *resolved {
			continue
		}
		if severity != "" && p.Severity != severity {
			continue
		}
		penalties = append(penalties, p)
	}
	return penalties, nil
}

// CompleteSession marks one of the user's pending sessions completed.
// Scoping the filter by userId keeps users from completing each other's
// sessions; a second completion of the same session reports not-found.
func (s *AccountabilityService) CompleteSession(ctx context.Context, userID, sessionID primitive.ObjectID, completedAt time.Time) error {
	res, err := s.sessions.UpdateOne(ctx,
		bson.M{
			"_id":    sessionID,
			"userId": userID,
			"status": bson.M{"$in": []string{models.SessionPlanned, models.SessionInProgress}},
		},
		bson.M{"$set": bson.M{
			"status":      models.SessionCompleted,
			"completedAt": completedAt,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RecordCompletion updates the ledger for a completed session: streak,
// running totals and the current week's stats.
func (s *AccountabilityService) RecordCompletion(ctx context.Context, userID primitive.ObjectID, workoutDate time.Time) error {
	record, err := s.EnsureRecord(ctx, userID)
	if err != nil {
		return err
	}

	streak := gamification.UpdateStreak(record.Streak.LastWorkoutDate, workoutDate, record.Streak.Current)
	longest := record.Streak.Longest
	if streak.NewStreak > longest {
		longest = streak.NewStreak
	}

	_, err = s.records.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set": bson.M{
				"streak.current":         streak.NewStreak,
				"streak.longest":         longest,
				"streak.lastWorkoutDate": workoutDate,
				"updatedAt":              time.Now(),
			},
			"$inc": bson.M{"totalWorkoutsCompleted": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	return s.RefreshWeeklyStat(ctx, userID, workoutDate)
}

// RefreshWeeklyStat recomputes the weekly stat covering t from the session
// store and upserts it into the stored history.
func (s *AccountabilityService) RefreshWeeklyStat(ctx context.Context, userID primitive.ObjectID, t time.Time) error {
	weekStart := startOfWeek(t)
	weekEnd := weekStart.AddDate(0, 0, 7)

	cursor, err := s.sessions.Find(ctx, bson.M{
		"userId":        userID,
		"scheduledDate": bson.M{"$gte": weekStart, "$lt": weekEnd},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch week sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.WorkoutSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return fmt.Errorf("failed to decode week sessions: %w", err)
	}
	stat := buildWeeklyStat(weekStart, sessions)

	res, err := s.records.UpdateOne(ctx,
		bson.M{"userId": userID, "weeklyStats.weekStart": weekStart},
		bson.M{"$set": bson.M{"weeklyStats.$": stat, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update weekly stat: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.records.UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{"$push": bson.M{"weeklyStats": stat}, "$set": bson.M{"updatedAt": time.Now()}},
		); err != nil {
			return fmt.Errorf("failed to append weekly stat: %w", err)
		}
	}
	return nil
}

// AccountabilitySummary is the read model for the summary endpoint.
type AccountabilitySummary struct {
	Streak      models.StreakInfo `json:"streak"`
	Totals      SummaryTotals     `json:"totals"`
	CurrentWeek models.WeeklyStat `json:"currentWeek"`
}

type SummaryTotals struct {
	WorkoutsCompleted int `json:"workoutsCompleted"`
	WorkoutsMissed    int `json:"workoutsMissed"`
	Penalties         int `json:"penalties"`
	UnresolvedCount   int `json:"unresolvedCount"`
}

// GetSummary returns streak state, running totals and the current week's
// completion stats computed from the session store.
func (s *AccountabilityService) GetSummary(ctx context.Context, userID primitive.ObjectID) (*AccountabilitySummary, error) {
	record, err := s.EnsureRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	unresolved := 0
	for _, p := range record.Penalties {
		if !p.Resolved {
			unresolved++
		}
	}

	week, err := s.CurrentWeekStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AccountabilitySummary{
		Streak: record.Streak,
		Totals: SummaryTotals{
			WorkoutsCompleted: record.TotalWorkoutsCompleted,
			WorkoutsMissed:    record.TotalWorkoutsMissed,
			Penalties:         record.TotalPenalties,
			UnresolvedCount:   unresolved,
		},
		CurrentWeek: *week,
	}, nil
}

// CurrentWeekStats computes planned/completed/missed counts for sessions
// scheduled in the current week. Weeks start Monday.
func (s *AccountabilityService) CurrentWeekStats(ctx context.Context, userID primitive.ObjectID) (*models.WeeklyStat, error) {
	weekStart := startOfWeek(time.Now())
	weekEnd := weekStart.AddDate(0, 0, 7)

	cursor, err := s.sessions.Find(ctx, bson.M{
		"userId":        userID,
		"scheduledDate": bson.M{"$gte": weekStart, "$lt": weekEnd},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.WorkoutSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode week sessions: %w", err)
	}

	stat := buildWeeklyStat(weekStart, sessions)
	return &stat, nil
}

// WeeklyStatsHistory returns the stored weekly stats sorted descending by
// week start, optionally limited.
func (s *AccountabilityService) WeeklyStatsHistory(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.WeeklyStat, error) {
	record, err := s.EnsureRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := make([]models.WeeklyStat, len(record.WeeklyStats))
	copy(stats, record.WeeklyStats)
	sortWeeklyStatsDesc(stats)

	if limit > 0 && limit < len(stats) {
		stats = stats[:limit]
	}
	return stats, nil
}

// resetStreak zeroes the current streak without touching the longest.
func (s *AccountabilityService) resetStreak(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.records.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"streak.current": 0, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to reset streak: %w", err)
	}
	return nil
}

// buildWeeklyStat aggregates one week of sessions into a WeeklyStat.
// completion_rate is completed/planned*100, 0 when nothing was planned.
func buildWeeklyStat(weekStart time.Time, sessions []models.WorkoutSession) models.WeeklyStat {
	stat := models.WeeklyStat{WeekStart: weekStart}
	for _, session := range sessions {
		stat.WorkoutsPlanned++
		switch session.Status {
		case models.SessionCompleted:
			stat.WorkoutsCompleted++
		case models.SessionSkipped:
			stat.WorkoutsMissed++
		}
	}
	if stat.WorkoutsPlanned > 0 {
		stat.CompletionRate = float64(stat.WorkoutsCompleted) / float64(stat.WorkoutsPlanned) * 100
	}
	return stat
}

// startOfWeek returns midnight UTC of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	day := utcMidnight(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return day.AddDate(0, 0, -offset)
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func sortWeeklyStatsDesc(stats []models.WeeklyStat) {
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].WeekStart.After(stats[j].WeekStart)
	})
}
