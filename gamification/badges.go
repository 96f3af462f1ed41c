package gamification

// BadgeRarity tiers badges for display.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// RequirementType is the kind of statistic a badge requirement checks.
type RequirementType string

const (
	RequireQuestsCompleted RequirementType = "quests_completed"
	RequireXPEarned        RequirementType = "xp_earned"
	RequireStreak          RequirementType = "streak"
	RequireCategory        RequirementType = "category_specific"
)

// BadgeRequirement is the predicate a user's stats must satisfy to earn a
// badge. Category is only set for category_specific requirements.
type BadgeRequirement struct {
	Type     RequirementType `json:"type"`
	Value    int             `json:"value"`
	Category string          `json:"category,omitempty"`
}

// BadgeDefinition is a static achievement catalog entry.
type BadgeDefinition struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Rarity      BadgeRarity      `json:"rarity"`
	Requirement BadgeRequirement `json:"requirement"`
}

// Badges is the immutable achievement catalog.
var Badges = []BadgeDefinition{
	{
		ID:          "first_steps",
		Name:        "First Steps",
		Description: "Complete your first quest",
		Rarity:      RarityCommon,
		Requirement: BadgeRequirement{Type: RequireQuestsCompleted, Value: 1},
	},
	{
		ID:          "questioner",
		Name:        "Questioner",
		Description: "Complete 5 quests",
		Rarity:      RarityCommon,
		Requirement: BadgeRequirement{Type: RequireQuestsCompleted, Value: 5},
	},
	{
		ID:          "quest_master",
		Name:        "Quest Master",
		Description: "Complete 25 quests",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireQuestsCompleted, Value: 25},
	},
	{
		ID:          "legend",
		Name:        "Legend",
		Description: "Complete 100 quests",
		Rarity:      RarityLegendary,
		Requirement: BadgeRequirement{Type: RequireQuestsCompleted, Value: 100},
	},
	{
		ID:          "xp_hunter",
		Name:        "XP Hunter",
		Description: "Earn 500 XP",
		Rarity:      RarityCommon,
		Requirement: BadgeRequirement{Type: RequireXPEarned, Value: 500},
	},
	{
		ID:          "xp_champion",
		Name:        "XP Champion",
		Description: "Earn 2000 XP",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireXPEarned, Value: 2000},
	},
	{
		ID:          "on_fire",
		Name:        "On Fire",
		Description: "3 day streak",
		Rarity:      RarityCommon,
		Requirement: BadgeRequirement{Type: RequireStreak, Value: 3},
	},
	{
		ID:          "unstoppable",
		Name:        "Unstoppable",
		Description: "7 day streak",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireStreak, Value: 7},
	},
	{
		ID:          "dedicated",
		Name:        "Dedicated",
		Description: "30 day streak",
		Rarity:      RarityEpic,
		Requirement: BadgeRequirement{Type: RequireStreak, Value: 30},
	},
	{
		ID:          "eco_warrior",
		Name:        "Eco Warrior",
		Description: "Complete 10 environment quests",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireCategory, Value: 10, Category: "environment"},
	},
	{
		ID:          "elder_friend",
		Name:        "Elder Friend",
		Description: "Complete 10 elderly care quests",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireCategory, Value: 10, Category: "elderly_care"},
	},
	{
		ID:          "food_hero",
		Name:        "Food Hero",
		Description: "Complete 10 food rescue quests",
		Rarity:      RarityRare,
		Requirement: BadgeRequirement{Type: RequireCategory, Value: 10, Category: "food_rescue"},
	},
}

// EarnedBadges returns the ids of every badge whose requirement the given
// stats currently satisfy. It re-evaluates the full catalog each call;
// callers diff against previously stored badges to detect new awards.
func EarnedBadges(questsCompleted, totalXP, currentStreak int, categoryStats map[string]int) []string {
	earned := []string{}
	for _, badge := range Badges {
		ok := false
		switch badge.Requirement.Type {
		case RequireQuestsCompleted:
			ok = questsCompleted >= badge.Requirement.Value
		case RequireXPEarned:
			ok = totalXP >= badge.Requirement.Value
		case RequireStreak:
			ok = currentStreak >= badge.Requirement.Value
		case RequireCategory:
			if badge.Requirement.Category != "" {
				ok = categoryStats[badge.Requirement.Category] >= badge.Requirement.Value
			}
		}
		if ok {
			earned = append(earned, badge.ID)
		}
	}
	return earned
}

// BadgeByID looks up a catalog entry, returning nil when the id is unknown.
func BadgeByID(id string) *BadgeDefinition {
	for i := range Badges {
		if Badges[i].ID == id {
			return &Badges[i]
		}
	}
	return nil
}
