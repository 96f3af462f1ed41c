package controllers

import (
	"context"
	"net/http"
	"time"

	"questhero/db"
	"questhero/gamification"
	"questhero/models"
	"questhero/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProfile retrieves the authenticated user's progression state along
// with the derived level curve position and badge details.
func GetProfile(ctx *gin.Context) {
	userID := ctx.GetString("userID")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = db.GetCollection(db.ProfilesCollection).FindOne(dbCtx, bson.M{"_id": oid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	avatarURL := profile.AvatarURL
	if avatarURL == "" {
		name := profile.DisplayName
		if name == "" {
			name = utils.ExtractNameFromEmail(profile.Email)
		}
		avatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
	}

	levelInfo := gamification.CalculateLevelInfo(profile.TotalXP)

	var badges []gamification.BadgeDefinition
	for _, id := range profile.Badges {
		if badge := gamification.BadgeByID(id); badge != nil {
			badges = append(badges, *badge)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"avatarUrl": avatarURL,
		"levelInfo": levelInfo,
		"badges":    badges,
	})
}
