package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is a user's progression state. TotalXP is monotonically
// non-decreasing; Level and Title are always recomputed from TotalXP by the
// leveling engine before being persisted, never mutated independently.
type Profile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email           string             `bson:"email" json:"email"`
	DisplayName     string             `bson:"displayName" json:"displayName"`
	AvatarURL       string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	TotalXP         int                `bson:"totalXp" json:"totalXp"`
	Level           int                `bson:"level" json:"level"`
	Title           string             `bson:"title" json:"title"`
	QuestsCompleted int                `bson:"questsCompleted" json:"questsCompleted"`
	CurrentStreak   int                `bson:"currentStreak" json:"currentStreak"`
	LongestStreak   int                `bson:"longestStreak" json:"longestStreak"`
	CategoryStats   map[string]int     `bson:"categoryStats,omitempty" json:"categoryStats,omitempty"`
	Badges          []string           `bson:"badges,omitempty" json:"badges,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
