package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"lumi/gamification"
	"lumi/models"
	"lumi/services"
	"lumi/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamificationController exposes the gamification transaction service to
// the HTTP layer.
type GamificationController struct {
	Gamification   *services.GamificationService
	Accountability *services.AccountabilityService
}

func NewGamificationController(g *services.GamificationService, a *services.AccountabilityService) *GamificationController {
	return &GamificationController{Gamification: g, Accountability: a}
}

// AwardXPRequest is the body for a workout-completion XP award
type AwardXPRequest struct {
	WorkoutDate       *time.Time `json:"workoutDate,omitempty"`
	HadPersonalRecord bool       `json:"hadPersonalRecord,omitempty"`
	SessionID         string     `json:"sessionId,omitempty"`
}

// currentUserID pulls the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	return v.(primitive.ObjectID), true
}

// respondServiceError maps the service error taxonomy to HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPenaltyNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyPurchased),
		errors.Is(err, services.ErrInsufficientGems):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// GetStats returns the user's gamification snapshot
func (gc *GamificationController) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := gc.Gamification.GetStats(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AwardXP applies a workout completion: optional session close-out, the
// atomic XP/streak/achievement award, and the accountability ledger update
func (gc *GamificationController) AwardXP(c *gin.Context) {
	var req AwardXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workoutDate := time.Now()
	if req.WorkoutDate != nil {
		workoutDate = *req.WorkoutDate
		if workoutDate.After(time.Now().Add(24 * time.Hour)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "workoutDate cannot be in the future"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if req.SessionID != "" {
		sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
			return
		}
		if err := gc.Accountability.CompleteSession(ctx, userID, sessionID, workoutDate); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	result, err := gc.Gamification.AwardWorkoutXP(ctx, userID, workoutDate, req.HadPersonalRecord)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The ledger is a separate aggregate; a failure there must not undo
	// the already-committed award
	if err := gc.Accountability.RecordCompletion(ctx, userID, workoutDate); err != nil {
		log.Printf("Failed to record completion in accountability ledger for %s: %v", userID.Hex(), err)
	}

	broadcastAwardEvents(userID, result)

	c.JSON(http.StatusOK, result)
}

func broadcastAwardEvents(userID primitive.ObjectID, result *services.AwardResult) {
	now := time.Now()
	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:      "xp_awarded",
		UserID:    userID.Hex(),
		XPAwarded: result.XPAwarded,
		Timestamp: now,
	})
	if result.LeveledUp {
		websocket.BroadcastGamificationEvent(models.GamificationEvent{
			Type:      "level_up",
			UserID:    userID.Hex(),
			NewLevel:  result.NewLevel,
			Timestamp: now,
		})
	}
	for _, id := range result.NewAchievements {
		websocket.BroadcastGamificationEvent(models.GamificationEvent{
			Type:        "achievement_unlocked",
			UserID:      userID.Hex(),
			Achievement: id,
			Timestamp:   now,
		})
	}
}

// GetAchievements returns the full catalog annotated with unlock state
func (gc *GamificationController) GetAchievements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	achievements, err := gc.Gamification.GetAchievements(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetLeaderboard returns the top users by XP
func (gc *GamificationController) GetLeaderboard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := gc.Gamification.GetLeaderboard(ctx, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "total": len(entries)})
}

// GetShop returns the shop catalog
func (gc *GamificationController) GetShop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": gamification.ShopCatalog})
}

// PurchaseRequest is the body for a shop purchase
type PurchaseRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

// PurchaseItem buys a shop item for gems
func (gc *GamificationController) PurchaseItem(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := gc.Gamification.PurchaseShopItem(ctx, userID, req.ItemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:      "item_purchased",
		UserID:    userID.Hex(),
		ItemID:    result.ItemID,
		Timestamp: time.Now(),
	})

	c.JSON(http.StatusOK, result)
}

// ClaimMilestones grants every newly eligible milestone reward
func (gc *GamificationController) ClaimMilestones(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := gc.Gamification.ClaimMilestoneRewards(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
