package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"payflow/internal/repositories"

	"github.com/google/uuid"
)

// maxApplyAttempts bounds the read-validate-apply loop when the store
// aborts a paired delta under concurrent mutation.
const maxApplyAttempts = 3

type service struct {
	store   AccountStore
	cache   BalanceCache
	metrics MetricsCollector
}

// NewService creates a new transfer service instance. The cache may be
// nil; metrics defaults to a no-op collector.
func NewService(store AccountStore, cache BalanceCache, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		store:   store,
		cache:   cache,
		metrics: metrics,
	}
}

// Execute validates and applies one transfer. Validation failures are
// terminal and leave both balances untouched. A store abort re-runs the
// read-validate-apply sequence up to maxApplyAttempts before giving up
// with ErrConflict. Once ApplyPairedDelta commits, the transfer is done;
// caller cancellation after that point does not roll it back.
func (s *service) Execute(ctx context.Context, callerID uint, req Request) (*Receipt, error) {
	if req.SourceID != callerID {
		return nil, ErrUnauthorized
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.SourceID == req.DestinationID {
		return nil, ErrInvalidDestination
	}

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source, err := s.store.GetByOwnerID(ctx, req.SourceID)
		if err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				// Authenticated callers always have an account; treat a
				// missing one as an internal-consistency fault.
				return nil, ErrAccountNotFound
			}
			s.metrics.RecordError("transfer", "storage")
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		if _, err := s.store.GetByOwnerID(ctx, req.DestinationID); err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				return nil, ErrDestinationNotFound
			}
			s.metrics.RecordError("transfer", "storage")
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		if source.Balance < req.Amount {
			return nil, ErrInsufficientFunds
		}

		err = s.store.ApplyPairedDelta(ctx, req.SourceID, -req.Amount, req.DestinationID, req.Amount)
		switch {
		case err == nil:
			return s.commit(ctx, req), nil
		case errors.Is(err, repositories.ErrTransferAborted):
			log.Printf("transfer %d->%d aborted by concurrent mutation, attempt %d/%d",
				req.SourceID, req.DestinationID, attempt, maxApplyAttempts)
			s.metrics.RecordRetry("transfer")
		case errors.Is(err, repositories.ErrAccountNotFound):
			// Accounts are never deleted in normal operation; a vanish
			// between read and apply is a consistency fault.
			s.metrics.RecordError("transfer", "storage")
			return nil, fmt.Errorf("%w: account missing during apply", ErrStorage)
		default:
			s.metrics.RecordError("transfer", "storage")
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	s.metrics.RecordError("transfer", "conflict")
	return nil, ErrConflict
}

func (s *service) commit(ctx context.Context, req Request) *Receipt {
	if s.cache != nil {
		if err := s.cache.InvalidateBalance(ctx, req.SourceID); err != nil {
			log.Printf("failed to invalidate balance cache %d: %v", req.SourceID, err)
		}
		if err := s.cache.InvalidateBalance(ctx, req.DestinationID); err != nil {
			log.Printf("failed to invalidate balance cache %d: %v", req.DestinationID, err)
		}
	}
	s.metrics.RecordTransfer(req.Amount)

	return &Receipt{
		Reference:     uuid.NewString(),
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Amount:        req.Amount,
		CompletedAt:   time.Now().UTC(),
	}
}

func (s *service) GetBalance(ctx context.Context, ownerID uint) (float64, error) {
	if s.cache != nil {
		if balance, err := s.cache.GetBalance(ctx, ownerID); err == nil {
			s.metrics.RecordCacheHit("balance")
			return balance, nil
		}
		s.metrics.RecordCacheMiss("balance")
	}

	account, err := s.store.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, ownerID, account.Balance); err != nil {
			log.Printf("failed to cache balance %d: %v", ownerID, err)
		}
	}
	return account.Balance, nil
}
