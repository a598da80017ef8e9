package handlers

import (
	"payflow/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports service connectivity and the ledger total.
// Transfers conserve money, so an unexpected change in the total between
// registrations is an operator signal worth surfacing here.
type HealthHandler struct {
	accountRepo repositories.AccountRepository
}

func NewHealthHandler(accountRepo repositories.AccountRepository) *HealthHandler {
	return &HealthHandler{accountRepo: accountRepo}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "unreachable"
	if repositories.DB != nil {
		if sqlDB, err := repositories.DB.DB(); err == nil && sqlDB.Ping() == nil {
			dbStatus = "connected"
		}
	}

	redisStatus := "unreachable"
	if repositories.CacheService != nil && repositories.CacheService.HealthCheck(c.Context()) == nil {
		redisStatus = "connected"
	}

	resp := fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	}

	if total, err := h.accountRepo.TotalBalance(c.Context()); err == nil {
		resp["ledger_total"] = total
	}

	return c.JSON(resp)
}
