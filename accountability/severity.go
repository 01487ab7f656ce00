// Package accountability holds the pure scoring behind missed-workout
// penalties.
package accountability

// Severity tiers
const (
	Light    = "light"
	Moderate = "moderate"
	Severe   = "severe"
)

// CalculatePenaltySeverity maps workout difficulty and hours overdue to a
// severity tier. Base score from overdue time (<48h: 1, 48-72h: 2,
// >=72h: 3), then adjusted one step by difficulty and clamped to [1,3].
func CalculatePenaltySeverity(difficulty string, hoursOverdue float64) string {
	score := 1
	if hoursOverdue >= 72 {
		score = 3
	} else if hoursOverdue >= 48 {
		score = 2
	}

	switch difficulty {
	case "advanced", "hard":
		if score < 3 {
			score++
		}
	case "beginner", "easy":
		if score > 1 {
			score--
		}
	}

	switch score {
	case 3:
		return Severe
	case 2:
		return Moderate
	default:
		return Light
	}
}
