package auth

import (
	"errors"
	"log"

	"payflow/internal/models"
	"payflow/internal/repositories"
	"payflow/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

type Service interface {
	Register(input *models.CreateUserInput) (*models.User, string, string, error)
	Login(username, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	GetUserByID(userID uint) (*models.User, error)
	GetUserTokenVersion(userID uint) (int, error)
}

type service struct {
	userRepo       repositories.UserRepository
	initialBalance float64
}

// NewService creates the auth service. New users receive an account
// seeded with initialBalance.
func NewService(userRepo repositories.UserRepository, initialBalance float64) Service {
	return &service{
		userRepo:       userRepo,
		initialBalance: initialBalance,
	}
}

func (s *service) Register(input *models.CreateUserInput) (*models.User, string, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", errors.New("failed to hash password")
	}

	user := &models.User{
		Username:  input.Username,
		Password:  string(hashedPassword),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Status:    "active",
	}

	if err := s.userRepo.CreateWithAccount(user, s.initialBalance); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, "", "", ErrUsernameTaken
		}
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.tokensFor(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(username, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		log.Printf("login failed: user not found for username %q", username)
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: incorrect password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokensFor(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
	})
}

// Logout bumps the user's token version, invalidating every token
// issued before now.
func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) tokensFor(user *models.User) (string, string, error) {
	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		log.Println("error generating tokens:", err)
		return "", "", errors.New("error generating tokens")
	}
	return accessToken, refreshToken, nil
}
