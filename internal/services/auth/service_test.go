package auth

import (
	"testing"

	"payflow/internal/models"
	"payflow/internal/repositories"
	"payflow/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) CreateWithAccount(user *models.User, initialBalance float64) error {
	args := m.Called(user, initialBalance)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) Search(filter string, limit, offset int) ([]*models.User, int64, error) {
	args := m.Called(filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("creates user with seeded account and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("CreateWithAccount", mock.Anything, float64(50)).
			Run(func(args mock.Arguments) {
				args.Get(0).(*models.User).ID = 7
			}).
			Return(nil)

		svc := NewService(repo, 50)
		user, access, refresh, err := svc.Register(&models.CreateUserInput{
			Username:  "alice_01",
			Password:  "sunny1day",
			FirstName: "Alice",
			LastName:  "Smith",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		// Password is stored hashed, never verbatim.
		assert.NotEqual(t, "sunny1day", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("sunny1day")))

		claims, err := utils.ParseToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("CreateWithAccount", mock.Anything, float64(50)).
			Return(repositories.ErrUsernameTaken)

		svc := NewService(repo, 50)
		_, _, _, err := svc.Register(&models.CreateUserInput{
			Username:  "alice_01",
			Password:  "sunny1day",
			FirstName: "Alice",
			LastName:  "Smith",
		})

		assert.ErrorIs(t, err, ErrUsernameTaken)
		repo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := &models.User{Username: "alice_01", Password: hashOf(t, "sunny1day"), TokenVersion: 1}
	stored.ID = 7

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByUsername", "alice_01").Return(stored, nil)

		svc := NewService(repo, 0)
		user, access, _, err := svc.Login("alice_01", "sunny1day")

		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.NotEmpty(t, access)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByUsername", "alice_01").Return(stored, nil)

		svc := NewService(repo, 0)
		_, _, _, err := svc.Login("alice_01", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByUsername", "nobody").Return(nil, repositories.ErrUserNotFound)

		svc := NewService(repo, 0)
		_, _, _, err := svc.Login("nobody", "sunny1day")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mintRefresh := func(t *testing.T, userID uint, version int) string {
		t.Helper()
		_, refresh, err := utils.GenerateTokens(&models.UserClaims{
			UserID:       userID,
			Username:     "alice_01",
			TokenVersion: version,
		})
		require.NoError(t, err)
		return refresh
	}

	t.Run("current token version", func(t *testing.T) {
		stored := &models.User{Username: "alice_01", TokenVersion: 1}
		stored.ID = 7
		repo := new(MockUserRepo)
		repo.On("GetByID", uint(7)).Return(stored, nil)

		svc := NewService(repo, 0)
		access, refresh, err := svc.RefreshTokens(mintRefresh(t, 7, 1))

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("stale token version after logout", func(t *testing.T) {
		stored := &models.User{Username: "alice_01", TokenVersion: 2}
		stored.ID = 7
		repo := new(MockUserRepo)
		repo.On("GetByID", uint(7)).Return(stored, nil)

		svc := NewService(repo, 0)
		_, _, err := svc.RefreshTokens(mintRefresh(t, 7, 1))

		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewService(new(MockUserRepo), 0)
		_, _, err := svc.RefreshTokens("not-a-token")
		assert.Error(t, err)
	})
}

func TestLogout_BumpsTokenVersion(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("IncrementTokenVersion", uint(7)).Return(nil)

	svc := NewService(repo, 0)
	err := svc.Logout(7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
