package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lumi/gamification"
	"lumi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAwardAttempts bounds the optimistic-lock retry loop for XP awards.
const maxAwardAttempts = 3

// GamificationService orchestrates atomic mutations of the gamification
// sub-document on the user record. Every write is a single conditional
// update: XP awards are guarded by the version token, purchases and
// milestone claims embed their preconditions in the filter.
type GamificationService struct {
	users       *mongo.Collection
	leaderboard *LeaderboardCache
}

// NewGamificationService builds a service over the given database. cache
// may be nil; the leaderboard then reads straight from Mongo.
func NewGamificationService(database *mongo.Database, cache *LeaderboardCache) *GamificationService {
	return &GamificationService{
		users:       database.Collection("users"),
		leaderboard: cache,
	}
}

// GamificationStats is the read-model snapshot returned to the API.
type GamificationStats struct {
	XP                     int64      `json:"xp"`
	Level                  int        `json:"level"`
	LevelTitle             string     `json:"levelTitle"`
	LevelProgress          float64    `json:"levelProgress"`
	XPForNextLevel         int64      `json:"xpForNextLevel"`
	TotalWorkoutsCompleted int        `json:"totalWorkoutsCompleted"`
	CurrentStreak          int        `json:"currentStreak"`
	LongestStreak          int        `json:"longestStreak"`
	LastWorkoutDate        *time.Time `json:"lastWorkoutDate,omitempty"`
	Achievements           []string   `json:"achievements"`
	TotalPRs               int        `json:"totalPrs"`
	Gems                   int64      `json:"gems"`
	TotalGemsEarned        int64      `json:"totalGemsEarned"`
	StreakFreezesAvailable int        `json:"streakFreezesAvailable"`
	PurchasedItems         []string   `json:"purchasedItems"`
}

// AwardResult describes a successful XP award.
type AwardResult struct {
	XPAwarded       int64                    `json:"xpAwarded"`
	Breakdown       gamification.XPBreakdown `json:"breakdown"`
	LeveledUp       bool                     `json:"leveledUp"`
	OldLevel        int                      `json:"oldLevel"`
	NewLevel        int                      `json:"newLevel"`
	StreakBroken    bool                     `json:"streakBroken"`
	CurrentStreak   int                      `json:"currentStreak"`
	NewAchievements []string                 `json:"newAchievements"`
	Stats           *GamificationStats       `json:"stats"`
}

// PurchaseResult describes a successful shop purchase.
type PurchaseResult struct {
	Success       bool   `json:"success"`
	ItemID        string `json:"itemId"`
	GemsRemaining int64  `json:"gemsRemaining"`
}

// ClaimResult describes a milestone claim pass.
type ClaimResult struct {
	TotalGemsAwarded  int64    `json:"totalGemsAwarded"`
	ClaimedMilestones []string `json:"claimedMilestones"`
}

func defaultGamificationState() *models.GamificationState {
	return &models.GamificationState{
		Level:                   1,
		Achievements:            []string{},
		StreakFreezesAvailable:  gamification.DefaultFreezes,
		Gems:                    gamification.DefaultGems,
		TotalGemsEarned:         gamification.DefaultGems,
		PurchasedItems:          []string{},
		MilestoneRewardsClaimed: []string{},
	}
}

// getUserWithGamification reads the user, lazily initializing the
// gamification sub-document with defaults. The init is a conditional
// write so two concurrent first accesses cannot both insert.
func (s *GamificationService) getUserWithGamification(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	for {
		var user models.User
		err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to fetch user: %w", err)
		}

		if user.Gamification != nil {
			return &user, nil
		}

		res, err := s.users.UpdateOne(ctx,
			bson.M{"_id": userID, "gamification": nil},
			bson.M{
				"$set": bson.M{"gamification": defaultGamificationState(), "updatedAt": time.Now()},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gamification state: %w", err)
		}
		if res.MatchedCount == 0 {
			// Another request initialized it first; re-read
			continue
		}
	}
}

func statsFromState(g *models.GamificationState) *GamificationStats {
	return &GamificationStats{
		XP:                     g.XP,
		Level:                  g.Level,
		LevelTitle:             gamification.LevelTitle(g.Level),
		LevelProgress:          gamification.LevelProgress(g.XP),
		XPForNextLevel:         gamification.XPForNextLevel(g.Level),
		TotalWorkoutsCompleted: g.TotalWorkoutsCompleted,
		CurrentStreak:          g.CurrentStreak,
		LongestStreak:          g.LongestStreak,
		LastWorkoutDate:        g.LastWorkoutDate,
		Achievements:           g.Achievements,
		TotalPRs:               g.TotalPRs,
		Gems:                   g.Gems,
		TotalGemsEarned:        g.TotalGemsEarned,
		StreakFreezesAvailable: g.StreakFreezesAvailable,
		PurchasedItems:         g.PurchasedItems,
	}
}

// GetStats returns the user's gamification snapshot, initializing defaults
// on first access.
func (s *GamificationService) GetStats(ctx context.Context, userID primitive.ObjectID) (*GamificationStats, error) {
	user, err := s.getUserWithGamification(ctx, userID)
	if err != nil {
		return nil, err
	}
	return statsFromState(user.Gamification), nil
}

// AwardWorkoutXP applies a workout completion: streak update, XP award,
// level derivation and achievement unlocks, committed in one conditional
// write guarded by the version token. Retries up to maxAwardAttempts on
// version conflict, then fails with a ConflictError.
func (s *GamificationService) AwardWorkoutXP(ctx context.Context, userID primitive.ObjectID, workoutDate time.Time, hadPersonalRecord bool) (*AwardResult, error) {
	if workoutDate.IsZero() {
		workoutDate = time.Now()
	}

	for attempt := 1; attempt <= maxAwardAttempts; attempt++ {
		user, err := s.getUserWithGamification(ctx, userID)
		if err != nil {
			return nil, err
		}
		g := user.Gamification

		streak := gamification.UpdateStreak(g.LastWorkoutDate, workoutDate, g.CurrentStreak)
		longest := g.LongestStreak
		if streak.NewStreak > longest {
			longest = streak.NewStreak
		}

		isFirstWorkout := g.TotalWorkoutsCompleted == 0
		award := gamification.CalculateWorkoutXP(isFirstWorkout, streak.NewStreak, hadPersonalRecord)

		newXP := g.XP + award.TotalXP
		oldLevel := g.Level
		newLevel := gamification.CalculateLevel(newXP)

		totalPRs := g.TotalPRs
		if hadPersonalRecord {
			totalPRs++
		}

		newAchievements := gamification.EvaluateAchievements(g.Achievements, gamification.StatsSnapshot{
			TotalWorkouts: g.TotalWorkoutsCompleted + 1,
			CurrentStreak: streak.NewStreak,
			TotalPRs:      totalPRs,
			Level:         newLevel,
		})

		update := bson.M{
			"$inc": bson.M{
				"gamification.xp":                     award.TotalXP,
				"gamification.totalWorkoutsCompleted": 1,
				"version":                             1,
			},
			"$set": bson.M{
				"gamification.level":           newLevel,
				"gamification.currentStreak":   streak.NewStreak,
				"gamification.longestStreak":   longest,
				"gamification.lastWorkoutDate": workoutDate,
				"updatedAt":                    time.Now(),
			},
		}
		if hadPersonalRecord {
			update["$inc"].(bson.M)["gamification.totalPrs"] = 1
		}
		if len(newAchievements) > 0 {
			update["$addToSet"] = bson.M{
				"gamification.achievements": bson.M{"$each": newAchievements},
			}
		}

		res, err := s.users.UpdateOne(ctx,
			bson.M{"_id": userID, "version": user.Version},
			update,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to apply xp award: %w", err)
		}
		if res.MatchedCount == 0 {
			// Another writer won the race; retry against fresh state
			log.Printf("XP award conflict for user %s (attempt %d/%d)", userID.Hex(), attempt, maxAwardAttempts)
			continue
		}

		// Post-write snapshot derived from the applied delta
		g.XP = newXP
		g.Level = newLevel
		g.TotalWorkoutsCompleted++
		g.CurrentStreak = streak.NewStreak
		g.LongestStreak = longest
		g.LastWorkoutDate = &workoutDate
		g.TotalPRs = totalPRs
		g.Achievements = append(g.Achievements, newAchievements...)

		if s.leaderboard != nil {
			s.leaderboard.UpdateScore(ctx, userID.Hex(), newXP)
		}

		return &AwardResult{
			XPAwarded:       award.TotalXP,
			Breakdown:       award.Breakdown,
			LeveledUp:       newLevel > oldLevel,
			OldLevel:        oldLevel,
			NewLevel:        newLevel,
			StreakBroken:    streak.StreakBroken,
			CurrentStreak:   streak.NewStreak,
			NewAchievements: newAchievements,
			Stats:           statsFromState(g),
		}, nil
	}

	return nil, &ConflictError{Attempts: maxAwardAttempts}
}

// PurchaseShopItem buys a catalog item. The ownership and balance checks
// live in the update filter, so the gem decrement and item grant happen in
// one atomic server-side operation; under a concurrent double purchase
// exactly one request matches.
func (s *GamificationService) PurchaseShopItem(ctx context.Context, userID primitive.ObjectID, itemID string) (*PurchaseResult, error) {
	item, ok := gamification.ShopItemByID(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}

	// Make sure the sub-document exists before filtering on it
	if _, err := s.getUserWithGamification(ctx, userID); err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":                         userID,
		"gamification.purchasedItems": bson.M{"$ne": item.ID},
		"gamification.gems":           bson.M{"$gte": item.Price},
	}
	inc := bson.M{
		"gamification.gems": -item.Price,
		"version":           1,
	}
	// Streak freezes are consumable, so the purchase also grants one
	if item.ID == "streak_freeze" {
		inc["gamification.streakFreezesAvailable"] = 1
	}
	update := bson.M{
		"$inc":      inc,
		"$addToSet": bson.M{"gamification.purchasedItems": item.ID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	var updated models.User
	err := s.users.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return &PurchaseResult{
			Success:       true,
			ItemID:        item.ID,
			GemsRemaining: updated.Gamification.Gems,
		}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to purchase item: %w", err)
	}

	// Precondition failed; re-read to report which one
	user, err := s.getUserWithGamification(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, owned := range user.Gamification.PurchasedItems {
		if owned == item.ID {
			return nil, ErrAlreadyPurchased
		}
	}
	return nil, ErrInsufficientGems
}

// ClaimMilestoneRewards grants the gem reward for every level milestone the
// user has reached but not yet claimed. Each milestone is its own
// conditional write re-checking "not already claimed" and the level
// threshold at write time, so concurrent claims grant each reward at most
// once. Idempotent: nothing newly eligible means a zero award.
func (s *GamificationService) ClaimMilestoneRewards(ctx context.Context, userID primitive.ObjectID) (*ClaimResult, error) {
	user, err := s.getUserWithGamification(ctx, userID)
	if err != nil {
		return nil, err
	}
	g := user.Gamification

	result := &ClaimResult{ClaimedMilestones: []string{}}
	for _, m := range gamification.EligibleMilestones(g.Level, g.MilestoneRewardsClaimed) {
		res, err := s.users.UpdateOne(ctx,
			bson.M{
				"_id":                                  userID,
				"gamification.level":                   bson.M{"$gte": m.Level},
				"gamification.milestoneRewardsClaimed": bson.M{"$ne": m.ID},
			},
			bson.M{
				"$inc": bson.M{
					"gamification.gems":            m.Gems,
					"gamification.totalGemsEarned": m.Gems,
					"version":                      1,
				},
				"$addToSet": bson.M{"gamification.milestoneRewardsClaimed": m.ID},
				"$set":      bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to claim milestone %s: %w", m.ID, err)
		}
		if res.MatchedCount == 0 {
			// A concurrent claim got there first; skip silently
			continue
		}
		result.TotalGemsAwarded += m.Gems
		result.ClaimedMilestones = append(result.ClaimedMilestones, m.ID)
	}

	return result, nil
}

// AchievementView is one catalog entry with the user's unlock state.
type AchievementView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// GetAchievements returns the full catalog annotated with unlock state.
func (s *GamificationService) GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]AchievementView, error) {
	user, err := s.getUserWithGamification(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(user.Gamification.Achievements))
	for _, id := range user.Gamification.Achievements {
		unlocked[id] = true
	}

	views := make([]AchievementView, 0, len(gamification.Catalog))
	for _, a := range gamification.Catalog {
		views = append(views, AchievementView{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Unlocked:    unlocked[a.ID],
		})
	}
	return views, nil
}
