package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitness-challenge-system/handlers"
	"fitness-challenge-system/models"
	"fitness-challenge-system/services"
	"fitness-challenge-system/utils"
	"fitness-challenge-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB for badge icons and gym photos
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the join/award conflict paths rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Exercise{},
		&models.GymExercise{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Badge{},
		&models.UserBadge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ledger := services.NewScoreLedger(db)
	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	gymService := services.NewGymService(db)
	exerciseService := services.NewExerciseService(db)
	challengeService := services.NewChallengeService(db)
	participantService := services.NewParticipantService(db, ledger)
	badgeCatalogService := services.NewBadgeCatalogService(db)
	badgeAwardService := services.NewBadgeAwardService(db, ledger)
	statsService := services.NewStatsService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	expiryWorker := workers.NewChallengeExpiryWorker(db, participantService)
	go expiryWorker.Run(ctx, 1*time.Minute)

	challengeService.StartLifecycleScheduler()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupUserRoutes(app, userService)
	handlers.SetupGymRoutes(app, gymService, exerciseService)
	handlers.SetupChallengeRoutes(app, challengeService)
	handlers.SetupParticipantRoutes(app, participantService)
	handlers.SetupBadgeRoutes(app, badgeCatalogService, badgeAwardService)
	handlers.SetupStatsRoutes(app, statsService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Challenge lifecycle scheduler running (every 1m)")
	log.Println("✅ Challenge expiry worker running (every 1m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
