package gamification

import "testing"

func TestCalculateWorkoutXPBaseOnly(t *testing.T) {
	award := CalculateWorkoutXP(false, 1, false)
	if award.TotalXP != BaseWorkoutXP {
		t.Errorf("Expected base XP %d, got %d", BaseWorkoutXP, award.TotalXP)
	}
	if award.Breakdown.FirstWorkout != 0 || award.Breakdown.PRBonus != 0 {
		t.Errorf("Unexpected bonus components: %+v", award.Breakdown)
	}
}

func TestCalculateWorkoutXPAllBonuses(t *testing.T) {
	award := CalculateWorkoutXP(true, 7, true)
	expected := int64(BaseWorkoutXP + FirstWorkoutXP + PersonalBestXP + 20)
	if award.TotalXP != expected {
		t.Errorf("Expected %d XP, got %d", expected, award.TotalXP)
	}
	sum := award.Breakdown.Base + award.Breakdown.FirstWorkout +
		award.Breakdown.StreakBonus + award.Breakdown.PRBonus
	if sum != award.TotalXP {
		t.Errorf("Breakdown does not sum to total: %d vs %d", sum, award.TotalXP)
	}
}

func TestStreakBonusMonotonic(t *testing.T) {
	prev := int64(0)
	for streak := 0; streak <= 60; streak++ {
		bonus := StreakBonus(streak)
		if bonus < prev {
			t.Errorf("Streak bonus decreased at streak %d: %d -> %d", streak, prev, bonus)
		}
		if bonus > MaxStreakBonus {
			t.Errorf("Streak bonus exceeds cap at streak %d: %d", streak, bonus)
		}
		prev = bonus
	}
}

func TestCalculateLevelBase(t *testing.T) {
	if lvl := CalculateLevel(0); lvl != 1 {
		t.Errorf("Expected level 1 at 0 XP, got %d", lvl)
	}
	if lvl := CalculateLevel(199); lvl != 1 {
		t.Errorf("Expected level 1 at 199 XP, got %d", lvl)
	}
	if lvl := CalculateLevel(200); lvl != 2 {
		t.Errorf("Expected level 2 at 200 XP, got %d", lvl)
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 120000; xp += 137 {
		lvl := CalculateLevel(xp)
		if lvl < prev {
			t.Errorf("Level decreased at %d XP: %d -> %d", xp, prev, lvl)
		}
		prev = lvl
	}
}

func TestLevelThresholdsConsistent(t *testing.T) {
	// The XP at which a level starts must map back to that level.
	for level := 1; level <= 30; level++ {
		floor := XPForLevel(level)
		if got := CalculateLevel(floor); got != level {
			t.Errorf("CalculateLevel(XPForLevel(%d)) = %d", level, got)
		}
		if floor > 0 {
			if got := CalculateLevel(floor - 1); got != level-1 {
				t.Errorf("CalculateLevel(%d) = %d, expected %d", floor-1, got, level-1)
			}
		}
	}
}

func TestLevelProgress(t *testing.T) {
	if p := LevelProgress(0); p != 0 {
		t.Errorf("Expected 0%% progress at 0 XP, got %f", p)
	}
	if p := LevelProgress(100); p != 50 {
		t.Errorf("Expected 50%% progress at 100 XP, got %f", p)
	}
	if p := LevelProgress(350); p != 50 {
		t.Errorf("Expected 50%% through level 2, got %f", p)
	}
}

func TestLevelTitle(t *testing.T) {
	cases := []struct {
		level int
		title string
	}{
		{1, "Newcomer"},
		{2, "Beginner"},
		{5, "Regular"},
		{10, "Athlete"},
		{25, "Legend"},
	}
	for _, c := range cases {
		if got := LevelTitle(c.level); got != c.title {
			t.Errorf("LevelTitle(%d) = %q, expected %q", c.level, got, c.title)
		}
	}
}
