// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"payflow/internal/config"
	"payflow/internal/repositories"
	"payflow/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Configures routes
// - Starts the HTTP server
func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if repositories.CacheService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := repositories.CacheService.HealthCheck(ctx); err != nil {
			log.Printf("redis unavailable, balance reads fall back to database: %v", err)
		}
		cancel()
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("failed to close redis connection: %v", err)
			}
		}
	}()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many requests, please try again later",
				})
			},
		}))
	}

	routes.SetupRoutes(app, repositories.DB)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
