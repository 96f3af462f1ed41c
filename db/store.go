package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"questhero/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB-backed record store used by the verification
// engine.
type MongoStore struct{}

// NewMongoStore returns a store bound to the package-level database handle.
func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

// FetchQuestByID resolves a quest by its hex id.
func (s *MongoStore) FetchQuestByID(ctx context.Context, id string) (*models.Quest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var quest models.Quest
	err = GetCollection(QuestsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&quest)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch quest: %w", err)
	}
	return &quest, nil
}

// InsertSubmission stores a proof submission record.
func (s *MongoStore) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	_, err := GetCollection(SubmissionsCollection).InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// CompleteUserQuest conditionally transitions an acceptance to completed.
// The filter excludes already-completed documents, so the transition
// succeeds at most once per acceptance; the returned bool reports whether
// this call performed it.
func (s *MongoStore) CompleteUserQuest(ctx context.Context, id string, xpEarned int, completedAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}

	filter := bson.M{
		"_id":    oid,
		"status": bson.M{"$ne": models.UserQuestCompleted},
	}
	update := bson.M{"$set": bson.M{
		"status":      models.UserQuestCompleted,
		"completedAt": completedAt,
		"xpEarned":    xpEarned,
	}}

	res, err := GetCollection(UserQuestsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to complete user quest: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// AwardProfileXP atomically increments a profile's XP, completion counter
// and per-category counter, returning the updated profile. When the atomic
// path fails it falls back to read-then-write; that fallback accepts a
// lost-update race under concurrent awards.
func (s *MongoStore) AwardProfileXP(ctx context.Context, userID string, xp int, category string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{
		"$inc": bson.M{
			"totalXp":                   xp,
			"questsCompleted":           1,
			"categoryStats." + category: 1,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	res := GetCollection(ProfilesCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var profile models.Profile
	if err := res.Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		log.Printf("Atomic XP award failed for user %s, falling back to read-then-write: %v", userID, err)
		return s.awardProfileXPFallback(ctx, oid, xp, category)
	}
	return &profile, nil
}

func (s *MongoStore) awardProfileXPFallback(ctx context.Context, oid primitive.ObjectID, xp int, category string) (*models.Profile, error) {
	collection := GetCollection(ProfilesCollection)

	var profile models.Profile
	if err := collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile for fallback award: %w", err)
	}

	profile.TotalXP += xp
	profile.QuestsCompleted++
	if profile.CategoryStats == nil {
		profile.CategoryStats = map[string]int{}
	}
	profile.CategoryStats[category]++
	profile.UpdatedAt = time.Now()

	_, err := collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"totalXp":         profile.TotalXP,
		"questsCompleted": profile.QuestsCompleted,
		"categoryStats":   profile.CategoryStats,
		"updatedAt":       profile.UpdatedAt,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to write fallback award: %w", err)
	}
	return &profile, nil
}

// UpdateProfileProgress persists the derived level, title and badge set.
// Level and title are always the leveling engine's output for the profile's
// total XP; no other path may write them.
func (s *MongoStore) UpdateProfileProgress(ctx context.Context, userID string, level int, title string, badges []string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	_, err = GetCollection(ProfilesCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"level":     level,
		"title":     title,
		"badges":    badges,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update profile progress: %w", err)
	}
	return nil
}

// IncrementQuestCompletions bumps a quest's completion counter.
func (s *MongoStore) IncrementQuestCompletions(ctx context.Context, questID string) error {
	oid, err := primitive.ObjectIDFromHex(questID)
	if err != nil {
		return ErrNotFound
	}

	_, err = GetCollection(QuestsCollection).UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"completionCount": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment quest completions: %w", err)
	}
	return nil
}

// FetchProfile resolves a profile by user id.
func (s *MongoStore) FetchProfile(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var profile models.Profile
	err = GetCollection(ProfilesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}
