package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"procflow/internal/adapters/http/middleware"
	"procflow/internal/adapters/http/routes"
	"procflow/internal/config"
	"procflow/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "procflow/docs" // Swagger docs
)

// @title procflow API
// @version 1.0
// @description Business process directory with role-based visibility
// @contact.name API Support

// @license.name MIT

// @BasePath /api/v1

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

	// Open the durable key-value store
	st, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer st.Close()

	// Load the bundled dataset (falls back to built-in defaults)
	dataset := config.LoadDataset(cfg.Dataset)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "procflow API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes; repositories hydrate persisted state over the dataset
	sessions := routes.Setup(app, st, dataset, cfg)

	// Hourly expired-session sweep
	cronService := services.NewCronService(sessions)
	cronService.Start()
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
