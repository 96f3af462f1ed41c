package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"questhero/db"

	"github.com/gin-gonic/gin"
)

// GetQuest returns a quest definition for detail views.
func GetQuest(c *gin.Context) {
	questID := c.Param("id")
	if questID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing quest id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	quest, err := db.NewMongoStore().FetchQuestByID(ctx, questID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quest not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quest"})
		}
		return
	}

	c.JSON(http.StatusOK, quest)
}
