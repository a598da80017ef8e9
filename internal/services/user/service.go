package user

import (
	"errors"

	"payflow/internal/models"
	"payflow/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	Search(filter string, limit, offset int) ([]models.UserSummary, int64, error)
	UpdateProfile(userID uint, input *models.UpdateUserInput) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Search(filter string, limit, offset int) ([]models.UserSummary, int64, error) {
	users, total, err := s.userRepo.Search(filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = models.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
	}
	return summaries, total, nil
}

// UpdateProfile merges the supplied fields onto the caller's own
// record. Empty fields are left untouched and the target is always the
// authenticated user, never a client-supplied id.
func (s *service) UpdateProfile(userID uint, input *models.UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
