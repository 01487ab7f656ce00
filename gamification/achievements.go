package gamification

// StatsSnapshot is the input achievements are evaluated against.
type StatsSnapshot struct {
	TotalWorkouts int
	CurrentStreak int
	TotalPRs      int
	Level         int
}

// Achievement couples catalog metadata with its unlock predicate.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocks     func(s StatsSnapshot) bool `json:"-"`
}

// Catalog is the fixed achievement catalog, evaluated in order.
var Catalog = []Achievement{
	{
		ID:          "first_workout",
		Name:        "First Steps",
		Description: "Complete your first workout",
		Icon:        "🏃",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalWorkouts >= 1 },
	},
	{
		ID:          "workouts_10",
		Name:        "Getting Into It",
		Description: "Complete 10 workouts",
		Icon:        "💪",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalWorkouts >= 10 },
	},
	{
		ID:          "workouts_50",
		Name:        "Gym Rat",
		Description: "Complete 50 workouts",
		Icon:        "🏋️",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalWorkouts >= 50 },
	},
	{
		ID:          "workouts_100",
		Name:        "Century Club",
		Description: "Complete 100 workouts",
		Icon:        "💯",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalWorkouts >= 100 },
	},
	{
		ID:          "streak_3",
		Name:        "Warming Up",
		Description: "Reach a 3-day streak",
		Icon:        "🔥",
		Unlocks:     func(s StatsSnapshot) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID:          "streak_7",
		Name:        "Week Warrior",
		Description: "Reach a 7-day streak",
		Icon:        "⚡",
		Unlocks:     func(s StatsSnapshot) bool { return s.CurrentStreak >= 7 },
	},
	{
		ID:          "streak_30",
		Name:        "Unstoppable",
		Description: "Reach a 30-day streak",
		Icon:        "🌟",
		Unlocks:     func(s StatsSnapshot) bool { return s.CurrentStreak >= 30 },
	},
	{
		ID:          "first_pr",
		Name:        "Personal Best",
		Description: "Set your first personal record",
		Icon:        "🥇",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalPRs >= 1 },
	},
	{
		ID:          "prs_10",
		Name:        "Record Breaker",
		Description: "Set 10 personal records",
		Icon:        "🏆",
		Unlocks:     func(s StatsSnapshot) bool { return s.TotalPRs >= 10 },
	},
	{
		ID:          "level_5",
		Name:        "Rising Star",
		Description: "Reach level 5",
		Icon:        "⭐",
		Unlocks:     func(s StatsSnapshot) bool { return s.Level >= 5 },
	},
	{
		ID:          "level_10",
		Name:        "Dedicated",
		Description: "Reach level 10",
		Icon:        "👑",
		Unlocks:     func(s StatsSnapshot) bool { return s.Level >= 10 },
	},
}

// EvaluateAchievements returns the IDs of achievements newly satisfied by
// the snapshot and not already in unlocked. Never returns an ID already
// unlocked, so repeated evaluation with merged results yields nothing new.
func EvaluateAchievements(unlocked []string, snapshot StatsSnapshot) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var newly []string
	for _, a := range Catalog {
		if have[a.ID] {
			continue
		}
		if a.Unlocks(snapshot) {
			newly = append(newly, a.ID)
		}
	}
	return newly
}
