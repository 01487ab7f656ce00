package gamification

// XP constants are catalog data, tunable without touching the algorithms.
const (
	BaseWorkoutXP   = 50
	FirstWorkoutXP  = 100
	PersonalBestXP  = 50
	MaxStreakBonus  = 50
	DefaultGems     = 50
	DefaultFreezes  = 2
)

// XPBreakdown itemizes the components of an award for the caller/UI.
type XPBreakdown struct {
	Base         int64 `json:"base"`
	FirstWorkout int64 `json:"firstWorkout,omitempty"`
	StreakBonus  int64 `json:"streakBonus,omitempty"`
	PRBonus      int64 `json:"prBonus,omitempty"`
}

// XPAward is the result of CalculateWorkoutXP.
type XPAward struct {
	TotalXP   int64       `json:"totalXp"`
	Breakdown XPBreakdown `json:"breakdown"`
}

// StreakBonus returns the additive XP bonus for a streak. Non-decreasing
// in streak length, capped at MaxStreakBonus.
func StreakBonus(currentStreak int) int64 {
	switch {
	case currentStreak >= 30:
		return MaxStreakBonus
	case currentStreak >= 14:
		return 30
	case currentStreak >= 7:
		return 20
	case currentStreak >= 3:
		return 10
	default:
		return 0
	}
}

// CalculateWorkoutXP computes the XP for a completed workout. currentStreak
// is the streak after the workout has been applied.
func CalculateWorkoutXP(isFirstWorkout bool, currentStreak int, hadPersonalRecord bool) XPAward {
	breakdown := XPBreakdown{Base: BaseWorkoutXP}
	if isFirstWorkout {
		breakdown.FirstWorkout = FirstWorkoutXP
	}
	breakdown.StreakBonus = StreakBonus(currentStreak)
	if hadPersonalRecord {
		breakdown.PRBonus = PersonalBestXP
	}

	total := breakdown.Base + breakdown.FirstWorkout + breakdown.StreakBonus + breakdown.PRBonus
	return XPAward{TotalXP: total, Breakdown: breakdown}
}

// levelThresholds[i] is the cumulative XP required to reach level i+1.
// Level 1 starts at 0.
var levelThresholds = []int64{
	0,     // 1
	200,   // 2
	500,   // 3
	1000,  // 4
	1750,  // 5
	2750,  // 6
	4000,  // 7
	5500,  // 8
	7500,  // 9
	10000, // 10
	13000, // 11
	16500, // 12
	20500, // 13
	25000, // 14
	30000, // 15
}

// beyond the table each level costs a flat amount
const xpPerLevelBeyondTable = 6000

var levelTitles = []struct {
	minLevel int
	title    string
}{
	{25, "Legend"},
	{20, "Champion"},
	{15, "Elite Athlete"},
	{10, "Athlete"},
	{7, "Committed"},
	{4, "Regular"},
	{2, "Beginner"},
	{1, "Newcomer"},
}

// CalculateLevel derives the level from cumulative XP. Total for all
// xp >= 0 and monotonically non-decreasing; CalculateLevel(0) == 1.
func CalculateLevel(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			return level
		}
	}
	// Past the table
	extra := xp - levelThresholds[len(levelThresholds)-1]
	return len(levelThresholds) + int(extra/xpPerLevelBeyondTable)
}

// XPForLevel returns the cumulative XP at which the given level starts.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level <= len(levelThresholds) {
		return levelThresholds[level-1]
	}
	beyond := int64(level - len(levelThresholds))
	return levelThresholds[len(levelThresholds)-1] + beyond*xpPerLevelBeyondTable
}

// XPForNextLevel returns the cumulative XP needed to reach level+1.
func XPForNextLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return XPForLevel(level + 1)
}

// LevelProgress returns the percentage progress (0-100) through the
// current level band for the given cumulative XP.
func LevelProgress(xp int64) float64 {
	if xp < 0 {
		return 0
	}
	level := CalculateLevel(xp)
	floor := XPForLevel(level)
	ceil := XPForNextLevel(level)
	if ceil <= floor {
		return 100
	}
	return float64(xp-floor) / float64(ceil-floor) * 100
}

// LevelTitle returns the cosmetic label for a level.
func LevelTitle(level int) string {
	for _, lt := range levelTitles {
		if level >= lt.minLevel {
			return lt.title
		}
	}
	return "Newcomer"
}
