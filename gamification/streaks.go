package gamification

import "math"

// streakTier pairs a minimum consecutive-day streak with its XP multiplier.
type streakTier struct {
	minDays    int
	multiplier float64
}

// Ordered by descending threshold so the first tier a streak meets wins.
var streakTiers = []streakTier{
	{30, 2.0},
	{14, 1.5},
	{7, 1.25},
	{3, 1.1},
}

// StreakMultiplier returns the XP multiplier for a consecutive-day streak.
// Streaks below three days earn no bonus.
func StreakMultiplier(streak int) float64 {
	for _, tier := range streakTiers {
		if streak >= tier.minDays {
			return tier.multiplier
		}
	}
	return 1.0
}

// XPWithStreakBonus applies the streak multiplier to a base XP amount,
// rounding to the nearest integer.
func XPWithStreakBonus(baseXP, streak int) int {
	return int(math.Round(float64(baseXP) * StreakMultiplier(streak)))
}
