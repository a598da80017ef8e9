package repositories

import (
	"context"
	"errors"

	"payflow/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransferAborted reports that a paired delta could not be applied
	// without driving a balance negative; the caller may re-read and retry.
	ErrTransferAborted = errors.New("transfer aborted")
)

// AccountRepository is the account store: durable, concurrency-safe
// balances keyed by owner id. Accounts are created once, at user
// registration, by UserRepository.CreateWithAccount; this interface
// only reads and mutates existing balances.
type AccountRepository interface {
	// GetByOwnerID returns a point-in-time read of one account.
	GetByOwnerID(ctx context.Context, ownerID uint) (*models.Account, error)

	// ApplyPairedDelta atomically applies both deltas or neither. It
	// returns ErrTransferAborted when either resulting balance would be
	// negative, and ErrAccountNotFound when either account is missing.
	ApplyPairedDelta(ctx context.Context, sourceID uint, sourceDelta float64, destID uint, destDelta float64) error

	// TotalBalance sums all balances. Transfers conserve money, so
	// the total only moves when an account is seeded at registration;
	// the health endpoint reports it as an operational check.
	TotalBalance(ctx context.Context) (float64, error)
}
