package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"questhero/db"
	"questhero/models"
	"questhero/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Volunteer represents a leaderboard entry
type Volunteer struct {
	ID          string `json:"id"`
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	TotalXP     int    `json:"totalXp"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
	AvatarURL   string `json:"avatarUrl"`
	CurrentUser bool   `json:"currentUser"`
}

// GetLeaderboard returns the top profiles ranked by total XP.
func GetLeaderboard(c *gin.Context) {
	currentUserID := c.GetString("userID")
	if currentUserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Get limit from query params (default 50)
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := parseInt(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	collection := db.GetCollection(db.ProfilesCollection)
	findOptions := options.Find().SetSort(bson.D{{Key: "totalXp", Value: -1}}).SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Printf("Failed to fetch profiles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard data"})
		return
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		log.Printf("Failed to decode profiles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leaderboard data"})
		return
	}

	var volunteers []Volunteer
	for i, profile := range profiles {
		name := profile.DisplayName
		if name == "" {
			name = utils.ExtractNameFromEmail(profile.Email)
		}

		avatarURL := profile.AvatarURL
		if avatarURL == "" {
			avatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
		}

		volunteers = append(volunteers, Volunteer{
			ID:          profile.ID.Hex(),
			Rank:        i + 1,
			Name:        name,
			TotalXP:     profile.TotalXP,
			Level:       profile.Level,
			Title:       profile.Title,
			AvatarURL:   avatarURL,
			CurrentUser: profile.ID.Hex() == currentUserID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteers": volunteers,
		"total":      len(volunteers),
	})
}

// Helper function to parse int
func parseInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	return result, err
}
