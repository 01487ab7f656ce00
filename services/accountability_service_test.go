package services

import (
	"testing"
	"time"

	"lumi/models"
)

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			"wednesday",
			time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday itself",
			time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the previous monday",
			time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, c := range cases {
		if got := startOfWeek(c.input); !got.Equal(c.expected) {
			t.Errorf("%s: startOfWeek(%v) = %v, expected %v", c.name, c.input, got, c.expected)
		}
	}
}

func TestBuildWeeklyStat(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sessions := []models.WorkoutSession{
		{Status: models.SessionCompleted},
		{Status: models.SessionCompleted},
		{Status: models.SessionCompleted},
		{Status: models.SessionSkipped},
		{Status: models.SessionPlanned},
	}

	stat := buildWeeklyStat(weekStart, sessions)
	if stat.WorkoutsPlanned != 5 {
		t.Errorf("Expected 5 planned, got %d", stat.WorkoutsPlanned)
	}
	if stat.WorkoutsCompleted != 3 {
		t.Errorf("Expected 3 completed, got %d", stat.WorkoutsCompleted)
	}
	if stat.WorkoutsMissed != 1 {
		t.Errorf("Expected 1 missed, got %d", stat.WorkoutsMissed)
	}
	if stat.CompletionRate != 60 {
		t.Errorf("Expected 60%% completion rate, got %f", stat.CompletionRate)
	}
}

func TestBuildWeeklyStatEmptyWeek(t *testing.T) {
	stat := buildWeeklyStat(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)
	if stat.CompletionRate != 0 {
		t.Errorf("Expected 0 completion rate for an empty week, got %f", stat.CompletionRate)
	}
}

func TestSortWeeklyStatsDesc(t *testing.T) {
	week := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	stats := []models.WeeklyStat{
		{WeekStart: week(3)},
		{WeekStart: week(17)},
		{WeekStart: week(10)},
	}

	sortWeeklyStatsDesc(stats)
	if !stats[0].WeekStart.Equal(week(17)) || !stats[2].WeekStart.Equal(week(3)) {
		t.Errorf("Stats not sorted descending: %v", stats)
	}
}

func TestIsNewBest(t *testing.T) {
	if !isNewBest(RecordWeight, 105, 100) {
		t.Errorf("Heavier weight should be a new best")
	}
	if isNewBest(RecordWeight, 95, 100) {
		t.Errorf("Lighter weight should not be a new best")
	}
	if isNewBest(RecordWeight, 100, 100) {
		t.Errorf("Equal weight should not be a new best")
	}
	if !isNewBest(RecordTime, 55, 60) {
		t.Errorf("Faster time should be a new best")
	}
	if isNewBest(RecordTime, 65, 60) {
		t.Errorf("Slower time should not be a new best")
	}
}

func TestNormalizeExerciseName(t *testing.T) {
	if got := NormalizeExerciseName("  Bench Press "); got != "bench press" {
		t.Errorf("Expected %q, got %q", "bench press", got)
	}
}

func TestConflictError(t *testing.T) {
	err := error(&ConflictError{Attempts: 3})
	if !IsConflict(err) {
		t.Errorf("IsConflict should detect a ConflictError")
	}
	if IsConflict(ErrInsufficientGems) {
		t.Errorf("IsConflict should not match business-rule errors")
	}
}
