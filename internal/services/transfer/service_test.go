package transfer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"payflow/internal/models"
	"payflow/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a mutex-guarded in-memory account store honoring the
// ApplyPairedDelta contract: both deltas or neither, abort instead of
// a negative balance.
type memStore struct {
	mu         sync.Mutex
	accounts   map[uint]*models.Account
	getCalls   int32
	applyCalls int32
}

func newMemStore(balances map[uint]float64) *memStore {
	accounts := make(map[uint]*models.Account, len(balances))
	for owner, balance := range balances {
		accounts[owner] = &models.Account{OwnerID: owner, Balance: balance}
	}
	return &memStore{accounts: accounts}
}

func (m *memStore) GetByOwnerID(_ context.Context, ownerID uint) (*models.Account, error) {
	atomic.AddInt32(&m.getCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[ownerID]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	snapshot := *account
	return &snapshot, nil
}

func (m *memStore) ApplyPairedDelta(_ context.Context, sourceID uint, sourceDelta float64, destID uint, destDelta float64) error {
	atomic.AddInt32(&m.applyCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.accounts[sourceID]
	if !ok {
		return repositories.ErrAccountNotFound
	}
	dest, ok := m.accounts[destID]
	if !ok {
		return repositories.ErrAccountNotFound
	}
	if source.Balance+sourceDelta < 0 || dest.Balance+destDelta < 0 {
		return repositories.ErrTransferAborted
	}
	source.Balance += sourceDelta
	source.Version++
	dest.Balance += destDelta
	dest.Version++
	return nil
}

func (m *memStore) balance(ownerID uint) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[ownerID].Balance
}

func (m *memStore) total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum float64
	for _, account := range m.accounts {
		sum += account.Balance
	}
	return sum
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name     string
		callerID uint
		req      Request
		wantErr  error
	}{
		{
			name:     "caller is not source owner",
			callerID: 2,
			req:      Request{SourceID: 1, DestinationID: 3, Amount: 10},
			wantErr:  ErrUnauthorized,
		},
		{
			name:     "negative amount",
			callerID: 1,
			req:      Request{SourceID: 1, DestinationID: 2, Amount: -5},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "zero amount",
			callerID: 1,
			req:      Request{SourceID: 1, DestinationID: 2, Amount: 0},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "self transfer",
			callerID: 1,
			req:      Request{SourceID: 1, DestinationID: 1, Amount: 10},
			wantErr:  ErrInvalidDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(map[uint]float64{1: 100, 2: 10})
			svc := NewService(store, nil, nil)

			receipt, err := svc.Execute(context.Background(), tt.callerID, tt.req)

			assert.Nil(t, receipt)
			assert.ErrorIs(t, err, tt.wantErr)
			// Validation failures never reach the store.
			assert.Zero(t, atomic.LoadInt32(&store.getCalls))
			assert.Zero(t, atomic.LoadInt32(&store.applyCalls))
			assert.Equal(t, float64(100), store.balance(1))
			assert.Equal(t, float64(10), store.balance(2))
		})
	}
}

func TestExecute_Commits(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100, 2: 10})
	svc := NewService(store, nil, nil)

	receipt, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 40})

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.NotEmpty(t, receipt.Reference)
	assert.Equal(t, uint(1), receipt.SourceID)
	assert.Equal(t, uint(2), receipt.DestinationID)
	assert.Equal(t, float64(40), receipt.Amount)
	assert.Equal(t, float64(60), store.balance(1))
	assert.Equal(t, float64(50), store.balance(2))
}

func TestExecute_DrainToZero(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100, 2: 0})
	svc := NewService(store, nil, nil)

	_, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 100})

	require.NoError(t, err)
	assert.Equal(t, float64(0), store.balance(1))
	assert.Equal(t, float64(100), store.balance(2))
}

func TestExecute_InsufficientFunds(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 30, 2: 5})
	svc := NewService(store, nil, nil)

	receipt, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 40})

	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, atomic.LoadInt32(&store.applyCalls))
	assert.Equal(t, float64(30), store.balance(1))
	assert.Equal(t, float64(5), store.balance(2))
}

func TestExecute_DestinationNotFound(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100})
	svc := NewService(store, nil, nil)

	receipt, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 99, Amount: 40})

	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, ErrDestinationNotFound)
	assert.Equal(t, float64(100), store.balance(1))
}

func TestExecute_SourceAccountMissing(t *testing.T) {
	store := newMemStore(map[uint]float64{2: 10})
	svc := NewService(store, nil, nil)

	_, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 10})

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestExecute_CancelledBeforeApply(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100, 2: 10})
	svc := NewService(store, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Execute(ctx, 1, Request{SourceID: 1, DestinationID: 2, Amount: 40})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&store.applyCalls))
	assert.Equal(t, float64(100), store.balance(1))
}

// abortingStore always aborts the paired delta, as if every apply lost
// a race, while reads keep showing a sufficient balance.
type abortingStore struct {
	applyCalls int32
}

func (s *abortingStore) GetByOwnerID(context.Context, uint) (*models.Account, error) {
	return &models.Account{OwnerID: 1, Balance: 100}, nil
}

func (s *abortingStore) ApplyPairedDelta(context.Context, uint, float64, uint, float64) error {
	atomic.AddInt32(&s.applyCalls, 1)
	return repositories.ErrTransferAborted
}

func TestExecute_RetriesThenConflict(t *testing.T) {
	store := &abortingStore{}
	svc := NewService(store, nil, nil)

	_, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 10})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int32(maxApplyAttempts), atomic.LoadInt32(&store.applyCalls))
}

// faultyStore fails reads with an infrastructure error.
type faultyStore struct {
	getCalls int32
}

func (s *faultyStore) GetByOwnerID(context.Context, uint) (*models.Account, error) {
	atomic.AddInt32(&s.getCalls, 1)
	return nil, errors.New("connection refused")
}

func (s *faultyStore) ApplyPairedDelta(context.Context, uint, float64, uint, float64) error {
	return errors.New("connection refused")
}

func TestExecute_StorageFaultNotRetried(t *testing.T) {
	store := &faultyStore{}
	svc := NewService(store, nil, nil)

	_, err := svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 10})

	assert.ErrorIs(t, err, ErrStorage)
	assert.NotContains(t, err.Error(), "insufficient")
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.getCalls))
}

func TestExecute_ConcurrentDebitsSameSource(t *testing.T) {
	const (
		n      = 5
		amount = 20.0
	)
	// Balance covers exactly n-1 transfers.
	store := newMemStore(map[uint]float64{1: amount * (n - 1), 2: 0})
	svc := NewService(store, nil, nil)

	initialTotal := store.total()

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: amount})
		}(i)
	}
	wg.Wait()

	var committed, failed int
	for _, err := range errs {
		if err == nil {
			committed++
			continue
		}
		failed++
		assert.True(t,
			errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrConflict),
			"unexpected failure: %v", err)
	}

	assert.Equal(t, n-1, committed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, float64(0), store.balance(1))
	assert.Equal(t, amount*(n-1), store.balance(2))
	assert.Equal(t, initialTotal, store.total())
}

func TestExecute_ConcurrentDistinctDestinations(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100, 2: 0, 3: 0})
	svc := NewService(store, nil, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, dest := range []uint{2, 3} {
		wg.Add(1)
		go func(i int, dest uint) {
			defer wg.Done()
			_, errs[i] = svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: dest, Amount: 60})
		}(i, dest)
	}
	wg.Wait()

	var committed int
	var committedDest uint
	for i, err := range errs {
		if err == nil {
			committed++
			committedDest = []uint{2, 3}[i]
		} else {
			assert.True(t,
				errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrConflict),
				"unexpected failure: %v", err)
		}
	}

	assert.Equal(t, 1, committed)
	assert.Equal(t, float64(40), store.balance(1))
	assert.Equal(t, float64(60), store.balance(committedDest))
	assert.Equal(t, float64(100), store.total())
}

func TestExecute_ConservationUnderLoad(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 500, 2: 500, 3: 500, 4: 500})
	svc := NewService(store, nil, nil)

	initialTotal := store.total()
	owners := []uint{1, 2, 3, 4}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		source := owners[i%len(owners)]
		dest := owners[(i+1)%len(owners)]
		wg.Add(1)
		go func(source, dest uint) {
			defer wg.Done()
			_, _ = svc.Execute(context.Background(), source, Request{SourceID: source, DestinationID: dest, Amount: 15})
		}(source, dest)
	}
	wg.Wait()

	assert.Equal(t, initialTotal, store.total())
	for _, owner := range owners {
		assert.GreaterOrEqual(t, store.balance(owner), float64(0))
	}
}

// fakeCache records balance cache traffic.
type fakeCache struct {
	mu       sync.Mutex
	balances map[uint]float64
	sets     int
	deletes  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{balances: make(map[uint]float64)}
}

func (c *fakeCache) GetBalance(_ context.Context, ownerID uint) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	balance, ok := c.balances[ownerID]
	if !ok {
		return 0, errors.New("cache miss")
	}
	return balance, nil
}

func (c *fakeCache) SetBalance(_ context.Context, ownerID uint, balance float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[ownerID] = balance
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateBalance(_ context.Context, ownerID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.balances, ownerID)
	c.deletes++
	return nil
}

func TestGetBalance(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 75})
	cache := newFakeCache()
	svc := NewService(store, cache, nil)

	t.Run("repeated reads are identical", func(t *testing.T) {
		first, err := svc.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		second, err := svc.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, float64(75), first)
		// Second read came from cache.
		assert.Equal(t, int32(1), atomic.LoadInt32(&store.getCalls))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.GetBalance(context.Background(), 99)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestExecute_InvalidatesBalanceCache(t *testing.T) {
	store := newMemStore(map[uint]float64{1: 100, 2: 10})
	cache := newFakeCache()
	svc := NewService(store, cache, nil)

	// Warm the cache for both parties.
	_, err := svc.GetBalance(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.GetBalance(context.Background(), 2)
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), 1, Request{SourceID: 1, DestinationID: 2, Amount: 40})
	require.NoError(t, err)

	// Post-commit reads observe the new balances, not stale cache.
	sourceBalance, err := svc.GetBalance(context.Background(), 1)
	require.NoError(t, err)
	destBalance, err := svc.GetBalance(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, float64(60), sourceBalance)
	assert.Equal(t, float64(50), destBalance)
	assert.Equal(t, 2, cache.deletes)
}
