package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"payflow/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService is a read-through cache for user profiles and account
// balances. All failures are reported to the caller, who degrades to a
// database read; the cache never gates correctness.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

const balanceTTL = 5 * time.Minute

func userKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func balanceKey(ownerID uint) string {
	return fmt.Sprintf("balance:%d", ownerID)
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	val, err := s.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *CacheService) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, userKey(user.ID), data, s.ttl).Err()
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, userKey(userID)).Err()
}

func (s *CacheService) GetBalance(ctx context.Context, ownerID uint) (float64, error) {
	val, err := s.client.Get(ctx, balanceKey(ownerID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}

func (s *CacheService) SetBalance(ctx context.Context, ownerID uint, balance float64) error {
	return s.client.Set(ctx, balanceKey(ownerID), strconv.FormatFloat(balance, 'f', -1, 64), balanceTTL).Err()
}

func (s *CacheService) InvalidateBalance(ctx context.Context, ownerID uint) error {
	return s.client.Del(ctx, balanceKey(ownerID)).Err()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
