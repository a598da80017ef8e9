// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"payflow/internal/config"
	"payflow/internal/handlers"
	"payflow/internal/middleware"
	"payflow/internal/repositories"
	"payflow/internal/services/auth"
	"payflow/internal/services/transfer"
	"payflow/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)

	// Initialize services
	authService := auth.NewService(userRepo, config.InitialBalance())
	transferService := transfer.NewService(
		accountRepo,
		repositories.CacheService,
		&transfer.NoopMetricsCollector{},
	)
	userService := user.NewService(userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(transferService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(accountRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)

	// Authenticated endpoints
	authed := api.Use(authMiddleware.Handler)
	authed.Post("/auth/logout", authHandler.Logout)
	authed.Get("/account/balance", accountHandler.GetBalance)
	authed.Post("/account/transfer", accountHandler.Transfer)
	authed.Get("/user/search", userHandler.Search)
	authed.Put("/user/update", userHandler.UpdateProfile)
}
