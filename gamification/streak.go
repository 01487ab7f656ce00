// Package gamification holds the pure calculators behind workout XP,
// levels, streaks and achievements. Nothing in here touches the database.
package gamification

import "time"

// StreakResult is the outcome of applying one workout to a streak.
type StreakResult struct {
	NewStreak    int
	StreakBroken bool
}

// UpdateStreak applies a workout at workoutDate to a streak whose last
// workout was lastWorkoutDate. Day differences are calendar days in UTC,
// not elapsed hours. Same-day re-logs leave the streak unchanged.
func UpdateStreak(lastWorkoutDate *time.Time, workoutDate time.Time, currentStreak int) StreakResult {
	if lastWorkoutDate == nil {
		return StreakResult{NewStreak: 1}
	}

	diff := calendarDayDiff(*lastWorkoutDate, workoutDate)
	switch {
	case diff == 0:
		streak := currentStreak
		if streak < 1 {
			streak = 1
		}
		return StreakResult{NewStreak: streak}
	case diff == 1:
		return StreakResult{NewStreak: currentStreak + 1}
	default:
		return StreakResult{NewStreak: 1, StreakBroken: true}
	}
}

// calendarDayDiff returns the number of UTC calendar days from a to b.
func calendarDayDiff(a, b time.Time) int {
	ad := startOfDay(a)
	bd := startOfDay(b)
	return int(bd.Sub(ad).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
