package routes

import (
	"questhero/controllers"

	"github.com/gin-gonic/gin"
)

// SetupQuestRoutes registers the quest and verification endpoints.
func SetupQuestRoutes(router *gin.RouterGroup) {
	router.GET("/api/quests/:id", controllers.GetQuest)
	router.POST("/api/quests/:id/verify", controllers.VerifyQuestSubmission)
}
