package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"lumi/config"
	"lumi/controllers"
	"lumi/db"
	"lumi/middlewares"
	"lumi/routes"
	"lumi/services"
	"lumi/utils"
	"lumi/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret)
	utils.SetTokenExpiry(cfg.JWT.Expiry)

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	if os.Getenv("SEED_TEST_USERS") == "true" {
		utils.PopulateTestUsers()
	}

	leaderboardCache := services.NewLeaderboardCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	gamificationService := services.NewGamificationService(db.MongoDatabase, leaderboardCache)
	accountabilityService := services.NewAccountabilityService(db.MongoDatabase)
	recordsService := services.NewRecordsService(db.MongoDatabase)
	detector := services.NewMissedWorkoutDetector(db.MongoDatabase, accountabilityService,
		time.Duration(cfg.Detector.OverdueHours)*time.Hour)

	if cfg.Detector.SweepIntervalMinutes > 0 {
		sched, err := services.StartDetectionScheduler(detector,
			time.Duration(cfg.Detector.SweepIntervalMinutes)*time.Minute)
		if err != nil {
			log.Fatalf("Failed to start detection scheduler: %v", err)
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("Scheduler shutdown: %v", err)
			}
		}()
	}

	router := setupRouter(gamificationService, accountabilityService, recordsService, detector)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(
	gamificationService *services.GamificationService,
	accountabilityService *services.AccountabilityService,
	recordsService *services.RecordsService,
	detector *services.MissedWorkoutDetector,
) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Public routes for authentication
	router.POST("/auth/signup", routes.SignupRouteHandler)
	router.POST("/auth/login", routes.LoginRouteHandler)

	// The websocket handler validates its own token (header or query)
	router.GET("/ws/gamification", websocket.GamificationWebSocketHandler)

	gamificationController := controllers.NewGamificationController(gamificationService, accountabilityService)
	accountabilityController := controllers.NewAccountabilityController(accountabilityService, detector)
	recordsController := controllers.NewRecordsController(recordsService)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupGamificationRoutes(auth, gamificationController)
		routes.SetupAccountabilityRoutes(auth, accountabilityController)
		routes.SetupRecordsRoutes(auth, recordsController)
	}

	return router
}
