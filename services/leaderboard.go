package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lumi/gamification"
	"lumi/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const leaderboardKey = "leaderboard:xp"

// LeaderboardCache keeps a Redis sorted set of user ids scored by XP so
// top-N reads don't hit Mongo. Failures are logged and swallowed; Mongo is
// the source of truth.
type LeaderboardCache struct {
	rdb *redis.Client
}

// NewLeaderboardCache connects to Redis. Returns nil (cache disabled) when
// addr is empty or the server is unreachable.
func NewLeaderboardCache(addr, password string, db int) *LeaderboardCache {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, leaderboard cache disabled: %v", err)
		return nil
	}

	return &LeaderboardCache{rdb: rdb}
}

// UpdateScore records a user's cumulative XP in the sorted set.
func (c *LeaderboardCache) UpdateScore(ctx context.Context, userID string, xp int64) {
	if err := c.rdb.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err(); err != nil {
		log.Printf("Failed to update leaderboard cache for %s: %v", userID, err)
	}
}

// topN returns up to n (userID, xp) pairs in descending score order.
func (c *LeaderboardCache) topN(ctx context.Context, n int) ([]redis.Z, error) {
	return c.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
}

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	XP         int64  `json:"xp"`
	Level      int    `json:"level"`
	LevelTitle string `json:"levelTitle"`
}

// GetLeaderboard returns the top users by XP. Reads the Redis sorted set
// when available, falling back to a Mongo query sorted on the xp index.
func (s *GamificationService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if s.leaderboard != nil {
		entries, err := s.leaderboardFromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			log.Printf("Leaderboard cache read failed, falling back to Mongo: %v", err)
		}
	}

	return s.leaderboardFromMongo(ctx, limit)
}

func (s *GamificationService) leaderboardFromCache(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	zs, err := s.leaderboard.topN(ctx, limit)
	if err != nil || len(zs) == 0 {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(zs))
	for _, z := range zs {
		id, err := primitive.ObjectIDFromHex(z.Member.(string))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard users: %w", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID.Hex()] = u
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		user, ok := byID[z.Member.(string)]
		if !ok {
			continue
		}
		entries = append(entries, leaderboardRow(len(entries)+1, user))
	}
	return entries, nil
}

func (s *GamificationService) leaderboardFromMongo(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "gamification.xp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.users.Find(ctx, bson.M{"gamification": bson.M{"$ne": nil}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, leaderboardRow(i+1, user))
	}
	return entries, nil
}

func leaderboardRow(rank int, user models.User) LeaderboardEntry {
	name := user.DisplayName
	if name == "" {
		// Fall back to the email local part
		if at := strings.Index(user.Email, "@"); at > 0 {
			name = user.Email[:at]
		} else {
			name = user.Email
		}
	}

	var xp int64
	level := 1
	if user.Gamification != nil {
		xp = user.Gamification.XP
		level = user.Gamification.Level
	}

	return LeaderboardEntry{
		Rank:       rank,
		UserID:     user.ID.Hex(),
		Name:       name,
		XP:         xp,
		Level:      level,
		LevelTitle: gamification.LevelTitle(level),
	}
}
