package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store is the redis surface the manager depends on.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(accessID string) string
}

// Manager tracks live access-token sessions in redis. A token whose jti has no
// session entry is treated as logged out even if the JWT itself is still valid.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Create registers a session for the given access token id.
func (m *Manager) Create(ctx context.Context, accessID string) error {
	if accessID == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Set(ctx, m.store.SessionKey(accessID), "1", m.ttl)
}

// Has reports whether the access token id still maps to a live session.
func (m *Manager) Has(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.SessionKey(accessID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke removes the session, invalidating the access token immediately.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	return m.store.Del(ctx, m.store.SessionKey(accessID))
}
