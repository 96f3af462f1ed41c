package routes

import (
	"questhero/controllers"

	"github.com/gin-gonic/gin"
)

// GetProfileRouteHandler fetches the authenticated user's profile
func GetProfileRouteHandler(c *gin.Context) {
	controllers.GetProfile(c)
}

// GetLeaderboardRouteHandler fetches the leaderboard
func GetLeaderboardRouteHandler(c *gin.Context) {
	controllers.GetLeaderboard(c)
}
