package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lumi/models"
	"lumi/services"
	"lumi/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountabilityController exposes the accountability ledger and the
// missed-workout sweep trigger.
type AccountabilityController struct {
	Accountability *services.AccountabilityService
	Detector       *services.MissedWorkoutDetector
}

func NewAccountabilityController(a *services.AccountabilityService, d *services.MissedWorkoutDetector) *AccountabilityController {
	return &AccountabilityController{Accountability: a, Detector: d}
}

// GetSummary returns streak state, totals and the current week's stats
func (ac *AccountabilityController) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := ac.Accountability.GetSummary(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreatePenaltyRequest is the body for a manual penalty
type CreatePenaltyRequest struct {
	WorkoutDate time.Time `json:"workoutDate" binding:"required"`
	Severity    string    `json:"severity" binding:"required"`
	Description string    `json:"description,omitempty"`
}

// CreatePenalty assigns a penalty manually
func (ac *AccountabilityController) CreatePenalty(c *gin.Context) {
	var req CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !models.ValidSeverity(req.Severity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "severity must be light, moderate or severe"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	penalty, err := ac.Accountability.CreatePenalty(ctx, userID, req.WorkoutDate, req.Severity, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:      "penalty_assigned",
		UserID:    userID.Hex(),
		Severity:  penalty.Severity,
		Timestamp: time.Now(),
	})

	c.JSON(http.StatusCreated, penalty)
}

// ResolvePenalty transitions a penalty to resolved
func (ac *AccountabilityController) ResolvePenalty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	penaltyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid penalty ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	penalties, err := ac.Accountability.ResolvePenalty(ctx, userID, penaltyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"penalties": penalties})
}

// ListPenalties returns the user's penalties with optional filters
func (ac *AccountabilityController) ListPenalties(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var resolved *bool
	if resolvedStr := c.Query("resolved"); resolvedStr != "" {
		parsed, err := strconv.ParseBool(resolvedStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "resolved must be true or false"})
			return
		}
		resolved = &parsed
	}

	severity := c.Query("severity")
	if severity != "" && !models.ValidSeverity(severity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "severity must be light, moderate or severe"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	penalties, err := ac.Accountability.ListPenalties(ctx, userID, resolved, severity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"penalties": penalties, "total": len(penalties)})
}

// GetWeeklyStats returns the stored weekly history, newest first
func (ac *AccountabilityController) GetWeeklyStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := ac.Accountability.WeeklyStatsHistory(ctx, userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeklyStats": stats})
}

// TriggerDetection runs the missed-workout sweep on demand
func (ac *AccountabilityController) TriggerDetection(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	result, err := ac.Detector.Run(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
