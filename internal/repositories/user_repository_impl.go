package repositories

import (
	"context"
	"errors"
	"log"

	"payflow/internal/models"
	"payflow/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) CreateWithAccount(user *models.User, initialBalance float64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		account := &models.Account{
			OwnerID: user.ID,
			Balance: initialBalance,
		}
		return tx.Create(account).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(context.Background(), id); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.SetUser(context.Background(), &user); err != nil {
			log.Printf("failed to cache user %d: %v", user.ID, err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return ErrDatabaseOperation
	}
	if r.cache != nil {
		if err := r.cache.InvalidateUser(context.Background(), user.ID); err != nil {
			log.Printf("failed to invalidate user cache %d: %v", user.ID, err)
		}
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	if r.cache != nil {
		if err := r.cache.InvalidateUser(context.Background(), userID); err != nil {
			log.Printf("failed to invalidate user cache %d: %v", userID, err)
		}
	}
	return nil
}

func (r *userRepository) Search(filter string, limit, offset int) ([]*models.User, int64, error) {
	pattern := "%" + filter + "%"
	const matchClause = "first_name ILIKE ? OR last_name ILIKE ?"

	var total int64
	if err := r.db.Model(&models.User{}).
		Where(matchClause, pattern, pattern).
		Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var users []*models.User
	err := r.db.
		Where(matchClause, pattern, pattern).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return users, total, nil
}
