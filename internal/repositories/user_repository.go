package repositories

import (
	"errors"

	"payflow/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// CreateWithAccount creates the user and their account atomically.
	CreateWithAccount(user *models.User, initialBalance float64) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByUsername retrieves a user by their username
	GetByUsername(username string) (*models.User, error)

	// Update updates an existing user's information
	Update(user *models.User) error

	// IncrementTokenVersion increments the user's token version
	IncrementTokenVersion(userID uint) error

	// Search finds users whose first or last name contains the filter,
	// case-insensitively, with pagination. The second return value is
	// the total number of matches across all pages.
	Search(filter string, limit, offset int) ([]*models.User, int64, error)
}
