package routes

import (
	"time"

	"procflow/internal/adapters/http/handlers"
	"procflow/internal/adapters/http/middleware"
	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/adapters/persistence/store"
	"procflow/internal/config"
	"procflow/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup wires repositories, services and handlers and registers all routes.
// The returned session manager is shared with the cron service in main.
func Setup(app *fiber.App, st store.Store, dataset *config.Dataset, cfg *config.Config) *services.SessionManager {
	// Repositories hydrate persisted state over the bundled dataset
	processRepo := repositories.NewProcessRepository(dataset.Processes, st, "processes")
	userRepo := repositories.NewUserRepository(dataset.Users, st, "users")

	// Session blobs live in the same store under per-session keys
	sessions := services.NewSessionManager(st, time.Duration(cfg.Session.TTLHours)*time.Hour)

	// Services
	authService := services.NewAuthService(userRepo, sessions, cfg)
	userService := services.NewUserService(userRepo, sessions, dataset.Users)
	processService := services.NewProcessService(processRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	processHandler := handlers.NewProcessHandler(processService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := apiV1.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/role-login", middleware.AuthRateLimiter(), authHandler.RoleLogin)
	auth.Post("/guest-login", middleware.AuthRateLimiter(), authHandler.GuestLogin)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	auth.Post("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)

	// Process routes
	processes := apiV1.Group("/processes", middleware.AuthMiddleware(cfg))
	processes.Get("/", middleware.CacheControl(30*time.Second), processHandler.ListProcesses)
	processes.Get("/:id", processHandler.GetProcess)
	processes.Post("/", middleware.ManagerOrAdmin(), processHandler.CreateProcess)
	processes.Put("/:id", middleware.ManagerOrAdmin(), processHandler.UpdateProcess)
	processes.Delete("/:id", middleware.AdminOnly(), processHandler.DeleteProcess)

	// User management routes
	users := apiV1.Group("/users", middleware.AuthMiddleware(cfg))
	users.Put("/:id/password", userHandler.ChangePassword) // self or admin, checked in handler
	users.Get("/stats", middleware.AdminOnly(), userHandler.GetStats)
	users.Get("/export", middleware.AdminOnly(), userHandler.ExportUsers)
	users.Post("/import", middleware.AdminOnly(), userHandler.ImportUsers)
	users.Post("/reset", middleware.AdminOnly(), userHandler.ResetUsers)
	users.Get("/", middleware.AdminOnly(), userHandler.ListUsers)
	users.Get("/:id", middleware.AdminOnly(), userHandler.GetUser)
	users.Post("/", middleware.AdminOnly(), userHandler.CreateUser)
	users.Put("/:id", middleware.AdminOnly(), userHandler.UpdateUser)
	users.Delete("/:id", middleware.AdminOnly(), userHandler.DeleteUser)

	return sessions
}
