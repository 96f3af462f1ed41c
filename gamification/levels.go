// Package gamification holds the pure progression math of the app: the XP
// level curve, streak bonus multipliers and the badge catalog.
package gamification

import "fmt"

// levelThresholds[i] is the cumulative XP required to reach level i+1.
var levelThresholds = []int{0, 100, 250, 450, 700, 1000, 1400, 1900, 2500, 3200}

// xpPerBonusLevel is the level width above the table's last entry. Each full
// 1000 XP past the level-10 threshold grants one more level, with no gap.
const xpPerBonusLevel = 1000

var levelTitles = []string{
	"Newcomer",
	"Apprentice",
	"Helper",
	"Volunteer",
	"Champion",
	"Hero",
	"Guardian",
	"Protector",
	"Legend",
	"Master",
}

// LevelInfo describes a user's position on the level curve.
type LevelInfo struct {
	Level       int     `json:"level"`
	Title       string  `json:"title"`
	XPIntoLevel int     `json:"xpIntoLevel"`
	LevelWidth  int     `json:"levelWidth"`
	Progress    float64 `json:"progress"` // 0-100
}

// CalculateLevelInfo maps cumulative XP to a level, title and progress
// within the current level. Negative XP is treated as zero.
func CalculateLevelInfo(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	maxTableXP := levelThresholds[len(levelThresholds)-1]
	if totalXP >= maxTableXP {
		extra := (totalXP - maxTableXP) / xpPerBonusLevel
		level := len(levelThresholds) + extra
		floor := maxTableXP + extra*xpPerBonusLevel
		return newLevelInfo(level, totalXP-floor, xpPerBonusLevel)
	}

	level := 1
	for i, threshold := range levelThresholds {
		if totalXP >= threshold {
			level = i + 1
		}
	}
	floor := levelThresholds[level-1]
	width := levelThresholds[level] - floor
	return newLevelInfo(level, totalXP-floor, width)
}

func newLevelInfo(level, xpIntoLevel, width int) LevelInfo {
	progress := float64(xpIntoLevel) / float64(width) * 100
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return LevelInfo{
		Level:       level,
		Title:       titleForLevel(level),
		XPIntoLevel: xpIntoLevel,
		LevelWidth:  width,
		Progress:    progress,
	}
}

func titleForLevel(level int) string {
	if level <= len(levelTitles) {
		return levelTitles[level-1]
	}
	return fmt.Sprintf("Master %d", level-len(levelTitles)+1)
}
