package main

import (
	"log"
	"strconv"

	"questhero/config"
	"questhero/controllers"
	"questhero/db"
	"questhero/internal/limiter"
	"questhero/middlewares"
	"questhero/routes"
	"questhero/services"
	"questhero/utils"
	"questhero/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret)
	utils.SetJWTExpiry(cfg.JWT.Expiry)

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Redis only backs the submission rate limiter; degrade open if down.
	if cfg.Redis.Addr != "" {
		if err := limiter.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("Redis unavailable, submission rate limiting disabled: %v", err)
		}
	}

	classifier, err := services.NewClassifier(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize classifier: %v", err)
	}
	log.Printf("Image classifier backend: %s", classifierName(cfg))

	services.InitVerificationService(cfg.Verification, db.NewMongoStore(), classifier, websocket.BroadcastGamificationEvent)
	controllers.InitVerificationController(cfg.Verification.MaxSubmissionsPerMinute)

	// Set up the Gin router and configure routes
	router := setupRouter()
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func classifierName(cfg *config.Config) string {
	if cfg.Classifier.Backend == "" {
		return "none"
	}
	return cfg.Classifier.Backend
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// WebSocket stream of gamification events; the handler does its own
	// token check so browser clients can pass it as a query parameter.
	router.GET("/ws/gamification", websocket.GamificationWebSocketHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupQuestRoutes(auth)
		auth.GET("/api/profile", routes.GetProfileRouteHandler)
		auth.GET("/api/leaderboard", routes.GetLeaderboardRouteHandler)
	}

	return router
}
