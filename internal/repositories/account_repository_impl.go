package repositories

import (
	"context"
	"errors"
	"fmt"

	"payflow/internal/models"

	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByOwnerID(ctx context.Context, ownerID uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ApplyPairedDelta runs both balance updates inside one database
// transaction. Each update is conditional on the resulting balance
// staying non-negative, so a concurrent debit that drained the source
// after the engine's read shows up here as zero rows affected and the
// whole pair rolls back. Updates run in ascending owner-id order so two
// opposing transfers cannot deadlock on row locks.
func (r *accountRepository) ApplyPairedDelta(ctx context.Context, sourceID uint, sourceDelta float64, destID uint, destDelta float64) error {
	steps := []struct {
		owner uint
		delta float64
	}{
		{sourceID, sourceDelta},
		{destID, destDelta},
	}
	if steps[1].owner < steps[0].owner {
		steps[0], steps[1] = steps[1], steps[0]
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range steps {
			res := tx.Model(&models.Account{}).
				Where("owner_id = ? AND balance + ? >= 0", step.owner, step.delta).
				Updates(map[string]interface{}{
					"balance": gorm.Expr("balance + ?", step.delta),
					"version": gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Account{}).Where("owner_id = ?", step.owner).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrAccountNotFound
				}
				return ErrTransferAborted
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrTransferAborted) || errors.Is(err, ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("failed to apply paired delta: %w", err)
	}
	return nil
}

func (r *accountRepository) TotalBalance(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get total balance: %w", err)
	}
	return total, nil
}
