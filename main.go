package main

import (
	"context"
	"log"
	"time"

	"github.com/bluestock/ipotrack/config"
	"github.com/bluestock/ipotrack/database"
	"github.com/bluestock/ipotrack/handlers"
	"github.com/bluestock/ipotrack/jobs"
	"github.com/bluestock/ipotrack/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate("database/schema.sql"); err != nil {
		log.Printf("Migration warning: %v", err)
	}

	// Initialize services
	ipoService := services.NewIPOService(database.DB)
	importService := services.NewImportService(ipoService)
	exportService := services.NewExportService(database.DB, ipoService)
	analyticsService := services.NewAnalyticsService(database.DB, ipoService)
	notificationService := services.NewNotificationService(database.DB)
	applicationService := services.NewApplicationService(database.DB, ipoService, notificationService)
	trackingService := services.NewTrackingService(database.DB, ipoService, notificationService)
	reminderService := services.NewReminderService(database.DB, ipoService, notificationService)
	userService := services.NewUserService(database.DB, cfg.BcryptCost)
	contactService := services.NewContactService(database.DB)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret)
	ipoHandler := handlers.NewIPOHandler(ipoService)
	userHandler := handlers.NewUserHandler(
		trackingService,
		applicationService,
		reminderService,
		notificationService,
		contactService,
	)
	adminHandler := handlers.NewAdminHandler(
		ipoService,
		importService,
		exportService,
		analyticsService,
		applicationService,
		trackingService,
		reminderService,
		notificationService,
		userService,
		contactService,
		cfg.ImportErrorSample,
	)

	// Start background reminder dispatch
	reminderJob := jobs.NewReminderDispatchJob(reminderService, cfg.ReminderInterval)
	reminderJob.Start()
	defer reminderJob.Stop()

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":    "degraded",
				"timestamp": time.Now().Unix(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	handlers.RegisterRoutes(app, authHandler, ipoHandler, userHandler, adminHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
