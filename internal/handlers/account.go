package handlers

import (
	"errors"

	"payflow/internal/middleware"
	"payflow/internal/services/transfer"
	"payflow/internal/utils"
	"payflow/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler exposes balance and transfer endpoints.
type AccountHandler struct {
	transferService transfer.Service
}

func NewAccountHandler(transferService transfer.Service) *AccountHandler {
	return &AccountHandler{transferService: transferService}
}

// GetBalance handles GET /account/balance requests.
func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	claims := middleware.ExtractClaims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.transferService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, transfer.ErrAccountNotFound) {
			return utils.NotFound(c, "account not found")
		}
		return utils.InternalError(c, "failed to get balance")
	}

	return utils.Success(c, fiber.Map{"balance": balance})
}

// Transfer handles POST /account/transfer requests.
func (h *AccountHandler) Transfer(c *fiber.Ctx) error {
	claims := middleware.ExtractClaims(c)
	if claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		To     uint    `json:"to"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Range("amount", input.Amount, validation.MinTransferAmount, validation.MaxTransferAmount)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	receipt, err := h.transferService.Execute(c.Context(), claims.UserID, transfer.Request{
		SourceID:      claims.UserID,
		DestinationID: input.To,
		Amount:        input.Amount,
	})
	if err != nil {
		return transferError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "transfer successful",
		"receipt": receipt,
	})
}

// transferError maps engine errors onto the HTTP boundary contract.
func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transfer.ErrUnauthorized):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrInvalidDestination),
		errors.Is(err, transfer.ErrDestinationNotFound),
		errors.Is(err, transfer.ErrInsufficientFunds):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrConflict):
		return utils.Conflict(c, err.Error())
	default:
		// ErrAccountNotFound for an authenticated caller and ErrStorage
		// are both internal faults; storage details stay opaque.
		return utils.InternalError(c, "something went wrong")
	}
}
