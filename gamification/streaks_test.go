package gamification

import "testing"

func TestXPWithStreakBonus(t *testing.T) {
	cases := []struct {
		base     int
		streak   int
		expected int
	}{
		{100, 0, 100},
		{100, 2, 100},
		{100, 3, 110},
		{100, 6, 110},
		{100, 7, 125},
		{100, 14, 150},
		{100, 29, 150},
		{100, 30, 200},
		{100, 365, 200},
		{45, 3, 50}, // 49.5 rounds up
	}

	for _, c := range cases {
		if got := XPWithStreakBonus(c.base, c.streak); got != c.expected {
			t.Errorf("XPWithStreakBonus(%d, %d): expected %d, got %d", c.base, c.streak, c.expected, got)
		}
	}
}

func TestStreakMultiplierBelowFirstTier(t *testing.T) {
	if m := StreakMultiplier(1); m != 1.0 {
		t.Errorf("Expected multiplier 1.0 below 3 days, got %f", m)
	}
}
