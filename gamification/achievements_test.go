package gamification

import "testing"

func TestEvaluateAchievementsFirstWorkout(t *testing.T) {
	newly := EvaluateAchievements(nil, StatsSnapshot{TotalWorkouts: 1, Level: 1})
	if len(newly) != 1 || newly[0] != "first_workout" {
		t.Errorf("Expected [first_workout], got %v", newly)
	}
}

func TestEvaluateAchievementsSkipsUnlocked(t *testing.T) {
	snapshot := StatsSnapshot{TotalWorkouts: 12, CurrentStreak: 7, Level: 3}
	newly := EvaluateAchievements([]string{"first_workout", "workouts_10"}, snapshot)
	for _, id := range newly {
		if id == "first_workout" || id == "workouts_10" {
			t.Errorf("Returned already unlocked achievement %s", id)
		}
	}
}

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	snapshot := StatsSnapshot{TotalWorkouts: 55, CurrentStreak: 8, TotalPRs: 2, Level: 6}

	first := EvaluateAchievements(nil, snapshot)
	if len(first) == 0 {
		t.Fatalf("Expected unlocks for snapshot %+v", snapshot)
	}

	second := EvaluateAchievements(first, snapshot)
	if len(second) != 0 {
		t.Errorf("Second evaluation with merged unlocks returned %v", second)
	}
}

func TestEvaluateAchievementsEmptySnapshot(t *testing.T) {
	newly := EvaluateAchievements(nil, StatsSnapshot{Level: 1})
	if len(newly) != 0 {
		t.Errorf("Expected no unlocks for a fresh user, got %v", newly)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Catalog {
		if seen[a.ID] {
			t.Errorf("Duplicate achievement id %s", a.ID)
		}
		seen[a.ID] = true
		if a.Unlocks == nil {
			t.Errorf("Achievement %s has no predicate", a.ID)
		}
	}
}

func TestEligibleMilestones(t *testing.T) {
	eligible := EligibleMilestones(10, []string{"level_2"})
	ids := make(map[string]bool)
	for _, m := range eligible {
		ids[m.ID] = true
	}
	if ids["level_2"] {
		t.Errorf("Claimed milestone returned as eligible")
	}
	if !ids["level_5"] || !ids["level_10"] {
		t.Errorf("Expected level_5 and level_10 eligible at level 10, got %v", eligible)
	}
	if ids["level_15"] {
		t.Errorf("level_15 should not be eligible at level 10")
	}
}
