package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestCategory classifies what kind of volunteering work a quest involves.
type QuestCategory string

const (
	CategoryEnvironment QuestCategory = "environment"
	CategoryElderlyCare QuestCategory = "elderly_care"
	CategoryFoodRescue  QuestCategory = "food_rescue"
	CategoryEducation   QuestCategory = "education"
	CategoryCommunity   QuestCategory = "community"
)

// QuestCategories lists every valid category.
var QuestCategories = []QuestCategory{
	CategoryEnvironment,
	CategoryElderlyCare,
	CategoryFoodRescue,
	CategoryEducation,
	CategoryCommunity,
}

// QuestDifficulty grades how demanding a quest is.
type QuestDifficulty string

const (
	DifficultyEasy   QuestDifficulty = "easy"
	DifficultyMedium QuestDifficulty = "medium"
	DifficultyHard   QuestDifficulty = "hard"
)

// Quest is a real-world micro-task with a location, category, difficulty
// and XP reward. Coordinates are WGS84 decimal degrees.
type Quest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Category        QuestCategory      `bson:"category" json:"category"`
	Difficulty      QuestDifficulty    `bson:"difficulty" json:"difficulty"`
	XPReward        int                `bson:"xpReward" json:"xpReward"`
	Latitude        float64            `bson:"latitude" json:"latitude"`
	Longitude       float64            `bson:"longitude" json:"longitude"`
	IsFeatured      bool               `bson:"isFeatured" json:"isFeatured"`
	CompletionCount int                `bson:"completionCount" json:"completionCount"`
	CreatedBy       primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserQuestStatus tracks a user's acceptance of a quest through its
// lifecycle.
type UserQuestStatus string

const (
	UserQuestAccepted   UserQuestStatus = "accepted"
	UserQuestInProgress UserQuestStatus = "in_progress"
	UserQuestCompleted  UserQuestStatus = "completed"
)

// UserQuest records one user's acceptance of one quest. Its id doubles as
// the idempotency key for the XP award: the transition to completed only
// ever succeeds once.
type UserQuest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	QuestID     primitive.ObjectID `bson:"questId" json:"questId"`
	Status      UserQuestStatus    `bson:"status" json:"status"`
	AcceptedAt  time.Time          `bson:"acceptedAt" json:"acceptedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	XPEarned    int                `bson:"xpEarned" json:"xpEarned"`
}
