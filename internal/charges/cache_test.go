package charge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekhigroup/livplus-backend/internal/watch"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
)

// listStub satisfies Service with canned List results; the management
// operations are never reached by the cache.
type listStub struct {
	mu    sync.Mutex
	rows  []models.CheckoutCharge
	err   error
	calls atomic.Int32
}

func (s *listStub) List(ctx context.Context) ([]models.CheckoutCharge, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.err
}

func (s *listStub) setRows(rows []models.CheckoutCharge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

func (s *listStub) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutCharge, error) {
	return nil, errors.New("not implemented")
}

func (s *listStub) Create(ctx context.Context, input CreateInput) (*models.CheckoutCharge, error) {
	return nil, errors.New("not implemented")
}

func (s *listStub) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.CheckoutCharge, error) {
	return nil, errors.New("not implemented")
}

func (s *listStub) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

func chargeRule(name string, amount int64) models.CheckoutCharge {
	return models.CheckoutCharge{
		ID:     uuid.New(),
		Name:   name,
		Type:   enums.DiscountTypeFixed,
		Amount: decimal.NewFromInt(amount),
	}
}

// waitForCached polls until a List call is answered from the snapshot, that
// is without touching the stub, and the result satisfies ready.
func waitForCached(t *testing.T, cache *Cache, stub *listStub, ready func([]models.CheckoutCharge) bool) []models.CheckoutCharge {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		before := stub.calls.Load()
		rows, err := cache.List(context.Background())
		require.NoError(t, err)
		if stub.calls.Load() == before && ready(rows) {
			return rows
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for a cached snapshot, last: %+v", rows)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func hasRule(name string) func([]models.CheckoutCharge) bool {
	return func(rows []models.CheckoutCharge) bool {
		return len(rows) == 1 && rows[0].Name == name
	}
}

func TestCacheServesSnapshotWithoutRequerying(t *testing.T) {
	stub := &listStub{rows: []models.CheckoutCharge{chargeRule("Shipping", 49)}}
	cache := NewCache(context.Background(), stub, watch.NewHub(), nil)
	defer cache.Close()

	waitForCached(t, cache, stub, hasRule("Shipping"))
	fetched := stub.calls.Load()

	for range 5 {
		rows, err := cache.List(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
	assert.Equal(t, fetched, stub.calls.Load())
}

func TestCacheRefetchesOnBroadcast(t *testing.T) {
	hub := watch.NewHub()
	stub := &listStub{rows: []models.CheckoutCharge{chargeRule("Shipping", 49)}}
	cache := NewCache(context.Background(), stub, hub, nil)
	defer cache.Close()

	waitForCached(t, cache, stub, hasRule("Shipping"))

	stub.setRows([]models.CheckoutCharge{chargeRule("GST", 18)})
	hub.Broadcast(enums.CatalogEventCharges.String())

	waitForCached(t, cache, stub, hasRule("GST"))
}

func TestCacheIgnoresUnrelatedBroadcasts(t *testing.T) {
	hub := watch.NewHub()
	stub := &listStub{rows: []models.CheckoutCharge{chargeRule("Shipping", 49)}}
	cache := NewCache(context.Background(), stub, hub, nil)
	defer cache.Close()

	waitForCached(t, cache, stub, hasRule("Shipping"))
	fetched := stub.calls.Load()

	hub.Broadcast(enums.CatalogEventProducts.String())
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, fetched, stub.calls.Load())
}

func TestCacheServesEmptyRuleSetFromSnapshot(t *testing.T) {
	stub := &listStub{}
	cache := NewCache(context.Background(), stub, watch.NewHub(), nil)
	defer cache.Close()

	rows := waitForCached(t, cache, stub, func(rows []models.CheckoutCharge) bool {
		return rows != nil
	})
	assert.Empty(t, rows)
}
