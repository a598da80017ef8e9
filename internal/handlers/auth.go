package handlers

import (
	"errors"

	"payflow/internal/middleware"
	"payflow/internal/models"
	"payflow/internal/services/auth"
	"payflow/internal/utils"
	"payflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register requests. It creates the user
// and their account, then returns fresh tokens.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.UserRegistration(&input)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	user, accessToken, refreshToken, err := h.authService.Register(&input)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return utils.BadRequest(c, "username already taken")
		}
		return utils.InternalError(c, "failed to register user")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"message":       "user registered successfully",
		"user_id":       user.ID,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Required("username", input.Username)
	v.Required("password", input.Password)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Username, input.Password)
	if err != nil {
		return utils.Unauthorized(c, "invalid credentials")
	}

	return utils.Success(c, fiber.Map{
		"message":       "logged in successfully",
		"user_id":       user.ID,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken handles POST /auth/refresh requests.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return utils.BadRequest(c, "refresh token required")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return utils.Unauthorized(c, "invalid refresh token")
	}

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout handles POST /auth/logout requests by invalidating every
// outstanding token for the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.ExtractClaims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		return utils.InternalError(c, "failed to log out")
	}

	return utils.Success(c, fiber.Map{"message": "logged out"})
}
