package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lumi/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordsController exposes personal-record detection and history.
type RecordsController struct {
	Records *services.RecordsService
}

func NewRecordsController(r *services.RecordsService) *RecordsController {
	return &RecordsController{Records: r}
}

// CheckRecordRequest is the body for a PR check
type CheckRecordRequest struct {
	ExerciseName string  `json:"exerciseName" binding:"required"`
	Category     string  `json:"category"`
	RecordType   string  `json:"recordType" binding:"required"`
	Value        float64 `json:"value" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	SessionID    string  `json:"sessionId,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// CheckRecord compares a performance against the user's best and records
// it when it is a new personal record
func (rc *RecordsController) CheckRecord(c *gin.Context) {
	var req CheckRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !services.ValidRecordType(req.RecordType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recordType must be weight, reps, time or distance"})
		return
	}
	if req.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be positive"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var sessionID *primitive.ObjectID
	if req.SessionID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
			return
		}
		sessionID = &parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := rc.Records.CheckAndRecord(ctx, userID, req.ExerciseName, req.Category, req.RecordType, req.Value, req.Unit, sessionID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, gin.H{"isNewRecord": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"isNewRecord": true, "record": record})
}

// ListRecords returns the user's most recent personal records
func (rc *RecordsController) ListRecords(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
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

	records, err := rc.Records.List(ctx, userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

// DeleteRecord removes one of the user's personal records
func (rc *RecordsController) DeleteRecord(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := rc.Records.Delete(ctx, userID, recordID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}
