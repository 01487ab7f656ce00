package gamification

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestUpdateStreakFirstWorkout(t *testing.T) {
	res := UpdateStreak(nil, date(2025, 3, 10), 0)
	if res.NewStreak != 1 {
		t.Errorf("Expected streak 1 for first workout, got %d", res.NewStreak)
	}
	if res.StreakBroken {
		t.Errorf("First workout should not break a streak")
	}
}

func TestUpdateStreakContinuation(t *testing.T) {
	yesterday := date(2025, 3, 9)
	res := UpdateStreak(&yesterday, date(2025, 3, 10), 5)
	if res.NewStreak != 6 {
		t.Errorf("Expected streak 6 after next-day workout, got %d", res.NewStreak)
	}
	if res.StreakBroken {
		t.Errorf("Next-day workout should not break the streak")
	}
}

func TestUpdateStreakSameDayRelog(t *testing.T) {
	morning := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	res := UpdateStreak(&morning, evening, 5)
	if res.NewStreak != 5 {
		t.Errorf("Same-day re-log should leave the streak unchanged, got %d", res.NewStreak)
	}
	if res.StreakBroken {
		t.Errorf("Same-day re-log should not break the streak")
	}
}

func TestUpdateStreakBroken(t *testing.T) {
	threeDaysAgo := date(2025, 3, 7)
	res := UpdateStreak(&threeDaysAgo, date(2025, 3, 10), 5)
	if res.NewStreak != 1 {
		t.Errorf("Expected streak reset to 1, got %d", res.NewStreak)
	}
	if !res.StreakBroken {
		t.Errorf("Expected streakBroken after a 3-day gap")
	}
}

func TestUpdateStreakDayBoundaryNotHours(t *testing.T) {
	// 11pm yesterday to 1am today is only 2 elapsed hours but a new
	// calendar day, so the streak continues.
	lateNight := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	earlyMorning := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	res := UpdateStreak(&lateNight, earlyMorning, 3)
	if res.NewStreak != 4 {
		t.Errorf("Expected streak 4 across midnight, got %d", res.NewStreak)
	}
}

func TestUpdateStreakZeroCurrentSameDay(t *testing.T) {
	today := date(2025, 3, 10)
	res := UpdateStreak(&today, date(2025, 3, 10), 0)
	if res.NewStreak != 1 {
		t.Errorf("Same-day with zero streak should report 1, got %d", res.NewStreak)
	}
}
