package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lumi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record types
const (
	RecordWeight   = "weight"
	RecordReps     = "reps"
	RecordTime     = "time"
	RecordDistance = "distance"
)

// RecordsService detects and stores personal records. One best per
// (user, normalized exercise name, record type).
type RecordsService struct {
	records *mongo.Collection
}

func NewRecordsService(database *mongo.Database) *RecordsService {
	return &RecordsService{records: database.Collection("personal_records")}
}

// ValidRecordType reports whether t is a known record type.
func ValidRecordType(t string) bool {
	switch t {
	case RecordWeight, RecordReps, RecordTime, RecordDistance:
		return true
	}
	return false
}

// NormalizeExerciseName lowercases and trims an exercise name so "Bench
// Press" and " bench press " share one record.
func NormalizeExerciseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// isNewBest compares a candidate value against the current best. For time
// records lower is better; for everything else higher is better.
func isNewBest(recordType string, value, currentBest float64) bool {
	if recordType == RecordTime {
		return value < currentBest
	}
	return value > currentBest
}

// CheckAndRecord compares a performance against the user's current best
// and stores a new PersonalRecord when it beats it. Returns the created
// record, or nil when the value is not a new best.
func (s *RecordsService) CheckAndRecord(ctx context.Context, userID primitive.ObjectID, exerciseName, category, recordType string, value float64, unit string, sessionID *primitive.ObjectID, notes string) (*models.PersonalRecord, error) {
	name := NormalizeExerciseName(exerciseName)

	var current models.PersonalRecord
	err := s.records.FindOne(ctx,
		bson.M{"userId": userID, "exerciseName": name, "recordType": recordType},
		options.FindOne().SetSort(bson.D{{Key: "achievedAt", Value: -1}}),
	).Decode(&current)

	var previous *float64
	switch {
	case err == nil:
		if !isNewBest(recordType, value, current.Value) {
			return nil, nil
		}
		prev := current.Value
		previous = &prev
	case errors.Is(err, mongo.ErrNoDocuments):
		// First entry for this exercise is automatically a record
	default:
		return nil, fmt.Errorf("failed to look up current record: %w", err)
	}

	record := models.PersonalRecord{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		ExerciseName:     name,
		Category:         category,
		RecordType:       recordType,
		Value:            value,
		Unit:             unit,
		PreviousValue:    previous,
		AchievedAt:       time.Now(),
		WorkoutSessionID: sessionID,
		Notes:            notes,
	}
	if _, err := s.records.InsertOne(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save personal record: %w", err)
	}
	return &record, nil
}

// List returns the user's most recent records.
func (s *RecordsService) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.PersonalRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cursor, err := s.records.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "achievedAt", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.PersonalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Delete removes one of the user's records. Scoping the filter by userId
// makes another user's record indistinguishable from a missing one.
func (s *RecordsService) Delete(ctx context.Context, userID, recordID primitive.ObjectID) error {
	res, err := s.records.DeleteOne(ctx, bson.M{"_id": recordID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
