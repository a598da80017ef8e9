package handlers

import (
	"payflow/internal/middleware"
	"payflow/internal/models"
	"payflow/internal/services/user"
	"payflow/internal/utils"
	"payflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const maxSearchLimit = 100

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Search handles GET /user/search?filter= requests.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	if middleware.ExtractClaims(c) == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	filter := c.Query("filter")
	pagination := utils.GetPagination(c, 1, maxSearchLimit)

	users, total, err := h.userService.Search(filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to search users")
	}

	pagination.SetTotal(total)
	return c.JSON(utils.NewPaginatedResponse(users, pagination))
}

// UpdateProfile handles PUT /user/update requests. It merges only the
// supplied fields onto the authenticated caller's profile.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.ExtractClaims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input models.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.UserUpdate(&input)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	updated, err := h.userService.UpdateProfile(claims.UserID, &input)
	if err != nil {
		return utils.InternalError(c, "failed to update profile")
	}

	return utils.Success(c, fiber.Map{
		"message": "profile updated successfully",
		"user": models.UserSummary{
			ID:        updated.ID,
			Username:  updated.Username,
			FirstName: updated.FirstName,
			LastName:  updated.LastName,
		},
	})
}
