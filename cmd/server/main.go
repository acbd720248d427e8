package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"eazicred/internal/adapters/cache"
	"eazicred/internal/adapters/events"
	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/adapters/http/routes"
	"eazicred/internal/adapters/notify"
	"eazicred/internal/adapters/persistence/models"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/config"
	"eazicred/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "eazicred/docs" // Swagger docs
)

// @title Eazicred API
// @version 1.0
// @description Employer-sponsored loan applications: OTP login, company onboarding and the loan lifecycle.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@eazicred.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.eazicred.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if cfg.IsDev() {
		if err := config.NewSeeder(db, cfg.Seed).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed database: %v", err)
		}
	}

	// Outbound adapters; each degrades to a no-op when unconfigured
	redisClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()

	publisher := events.New(cfg.NATS.URL)
	defer publisher.Close()

	notifier := notify.New(cfg.Mail)

	// Start Cron Service for the pending loan digest
	repos := repositories.NewRepos(db)
	cronService := services.NewCronService(
		repos.Loans,
		repos.Companies,
		repos.Users,
		services.NewNotificationService(notifier, cfg.Mail.Timeout),
		cfg.Cron,
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Eazicred API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, routes.Infra{
		Cache:     redisClient,
		Publisher: publisher,
		Notifier:  notifier,
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Server stopped: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
