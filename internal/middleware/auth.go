// Package middleware provides HTTP middleware components for the application.
// It includes authentication and other request processing middleware
// that can be used with the fiber web framework.
package middleware

import (
	"log"
	"strings"

	"payflow/internal/models"
	"payflow/internal/services/auth"
	"payflow/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and expiration
// - Token version matches current user version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("user %d from token not found: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	if claims.TokenVersion != currentVersion {
		log.Printf("token version mismatch for user %d: token %d, current %d",
			claims.UserID, claims.TokenVersion, currentVersion)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// ExtractClaims returns the authenticated user's claims from the
// request context, or nil if the auth middleware did not run.
func ExtractClaims(c *fiber.Ctx) *models.UserClaims {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
