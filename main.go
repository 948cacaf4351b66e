// main.go - Sermon notes API server
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"biblenotes/database"
	"biblenotes/handlers"
	"biblenotes/middleware"
	"biblenotes/services"
	"biblenotes/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	db := database.GetDB()
	store := services.NewVerseStore(db)
	hub := services.NewHub()
	resolver := services.NewVerseResolver(store)
	notes := services.NewNoteService(db, resolver, hub)

	handlers.InitHandlers(handlers.Services{
		Verses: resolver,
		Notes:  notes,
		Users:  services.NewUserService(db),
		Hub:    hub,
	})

	// Seed verses from the dataset file
	if path := os.Getenv("BIBLE_DATA_FILE"); path != "" {
		log.Printf("Loading verses from %s...", path)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		if _, err := services.SeedVersesFromFile(ctx, store, path); err != nil {
			log.Printf("❌ Failed to seed verses: %v", err)
		}
		cancel()
	} else {
		log.Println("BIBLE_DATA_FILE not set, skipping verse seeding")
	}

	// Initialize cleanup service
	if getEnv("CLEANUP_ENABLED", "true") != "false" {
		hour, err := strconv.Atoi(getEnv("CLEANUP_HOUR_UTC", "14"))
		if err != nil {
			log.Printf("WARNING: invalid CLEANUP_HOUR_UTC, using 14")
			hour = 14
		}
		services.InitCleanupService(notes, hour).Start()
		defer func() {
			if cleanupService := services.GetCleanupService(); cleanupService != nil {
				cleanupService.Stop()
			}
		}()
	}

	limiters := middleware.NewRateLimitersFromEnv()
	limiters.StartJanitor()
	defer limiters.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(utils.SplitList(corsOrigins), ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(app, handlers.RouteConfig{
		Limiters:       limiters,
		IdentitySecret: os.Getenv("IDENTITY_SHARED_SECRET"),
		AdminKey:       os.Getenv("ADMIN_API_KEY"),
	})

	port := getEnv("PORT", "3000")

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🧹 Empty note cleanup: %s", getEnv("CLEANUP_ENABLED", "true"))
	log.Printf("🪪 Identity exchange enabled: %v", os.Getenv("IDENTITY_SHARED_SECRET") != "")
	log.Printf("🛠️  Admin endpoints enabled: %v", os.Getenv("ADMIN_API_KEY") != "")
	log.Printf("🌐 Live updates available at ws://localhost:%s/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		origins := utils.SplitList(os.Getenv("CORS_ORIGINS"))
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "http://localhost:3000") {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
		if secret := os.Getenv("IDENTITY_SHARED_SECRET"); secret != "" && len(secret) < 16 {
			log.Println("WARNING: IDENTITY_SHARED_SECRET is shorter than 16 characters")
		}
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
