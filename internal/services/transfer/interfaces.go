package transfer

import (
	"context"

	"payflow/internal/models"
)

// AccountStore defines the account store operations the engine relies
// on. The engine holds no state of its own and never locks; the store's
// ApplyPairedDelta is the sole serialization point.
type AccountStore interface {
	GetByOwnerID(ctx context.Context, ownerID uint) (*models.Account, error)
	ApplyPairedDelta(ctx context.Context, sourceID uint, sourceDelta float64, destID uint, destDelta float64) error
}

// BalanceCache caches balance reads. Optional; a nil cache disables it.
type BalanceCache interface {
	GetBalance(ctx context.Context, ownerID uint) (float64, error)
	SetBalance(ctx context.Context, ownerID uint, balance float64) error
	InvalidateBalance(ctx context.Context, ownerID uint) error
}

// Service executes validated balance transfers between accounts.
type Service interface {
	Execute(ctx context.Context, callerID uint, req Request) (*Receipt, error)
	GetBalance(ctx context.Context, ownerID uint) (float64, error)
}
