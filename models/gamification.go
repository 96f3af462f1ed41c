package models

import "time"

// GamificationEvent is broadcast over the websocket hub after a verified
// submission changes a user's progression.
type GamificationEvent struct {
	Type       string    `json:"type"` // "xp_awarded", "badge_earned", "level_up"
	UserID     string    `json:"userId"`
	QuestID    string    `json:"questId,omitempty"`
	BadgeID    string    `json:"badgeId,omitempty"`
	XPAwarded  int       `json:"xpAwarded,omitempty"`
	NewTotalXP int       `json:"newTotalXp,omitempty"`
	NewLevel   int       `json:"newLevel,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
