package gamification

// ShopItem is a purchasable catalog entry priced in gems.
type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// ShopCatalog is the fixed shop inventory.
var ShopCatalog = []ShopItem{
	{ID: "streak_freeze", Name: "Streak Freeze", Description: "Protects your streak for one missed day", Price: 100},
	{ID: "theme_midnight", Name: "Midnight Theme", Description: "Dark app theme", Price: 150},
	{ID: "theme_sunrise", Name: "Sunrise Theme", Description: "Warm app theme", Price: 150},
	{ID: "badge_flame", Name: "Flame Badge", Description: "Show off your dedication", Price: 200},
	{ID: "avatar_frame_gold", Name: "Gold Avatar Frame", Description: "Gilded profile frame", Price: 300},
	{ID: "title_beast_mode", Name: "Beast Mode Title", Description: "Custom profile title", Price: 500},
}

// ShopItemByID looks up a catalog entry; ok is false for unknown ids.
func ShopItemByID(id string) (ShopItem, bool) {
	for _, item := range ShopCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return ShopItem{}, false
}

// Milestone is a one-time gem reward unlocked at a level threshold.
type Milestone struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Gems  int64  `json:"gems"`
}

// Milestones lists the level milestones in ascending order.
var Milestones = []Milestone{
	{ID: "level_2", Level: 2, Gems: 25},
	{ID: "level_5", Level: 5, Gems: 50},
	{ID: "level_10", Level: 10, Gems: 100},
	{ID: "level_15", Level: 15, Gems: 200},
	{ID: "level_20", Level: 20, Gems: 300},
	{ID: "level_25", Level: 25, Gems: 500},
}

// EligibleMilestones returns the milestones whose level threshold is met
// and whose ID is not already claimed.
func EligibleMilestones(level int, claimed []string) []Milestone {
	have := make(map[string]bool, len(claimed))
	for _, id := range claimed {
		have[id] = true
	}

	var eligible []Milestone
	for _, m := range Milestones {
		if m.Level <= level && !have[m.ID] {
			eligible = append(eligible, m)
		}
	}
	return eligible
}
