package gamification

import "testing"

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestEarnedBadgesFirstQuest(t *testing.T) {
	earned := EarnedBadges(1, 0, 0, map[string]int{})

	if !contains(earned, "first_steps") {
		t.Errorf("Expected first_steps after one quest, got %v", earned)
	}
	if contains(earned, "questioner") {
		t.Errorf("Did not expect questioner after one quest, got %v", earned)
	}
}

func TestEarnedBadgesVeteran(t *testing.T) {
	earned := EarnedBadges(100, 5000, 30, map[string]int{"environment": 10})

	for _, id := range []string{"legend", "xp_champion", "dedicated", "eco_warrior"} {
		if !contains(earned, id) {
			t.Errorf("Expected %s for veteran stats, got %v", id, earned)
		}
	}
	if contains(earned, "elder_friend") {
		t.Errorf("Did not expect elder_friend without elderly_care quests, got %v", earned)
	}
}

func TestEarnedBadgesCategoryRequiresCount(t *testing.T) {
	earned := EarnedBadges(50, 10000, 0, nil)
	if contains(earned, "eco_warrior") {
		t.Errorf("Category badge earned with no category stats: %v", earned)
	}

	earned = EarnedBadges(50, 10000, 0, map[string]int{"food_rescue": 9})
	if contains(earned, "food_hero") {
		t.Errorf("food_hero earned at 9 of 10 quests: %v", earned)
	}
}

func TestEarnedBadgesEmptyStats(t *testing.T) {
	if earned := EarnedBadges(0, 0, 0, nil); len(earned) != 0 {
		t.Errorf("Expected no badges for zero stats, got %v", earned)
	}
}

func TestBadgeByID(t *testing.T) {
	badge := BadgeByID("on_fire")
	if badge == nil {
		t.Fatal("Expected on_fire badge in catalog")
	}
	if badge.Requirement.Type != RequireStreak || badge.Requirement.Value != 3 {
		t.Errorf("Unexpected on_fire requirement: %+v", badge.Requirement)
	}

	if BadgeByID("nonexistent") != nil {
		t.Error("Expected nil for unknown badge id")
	}
}
