package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

// cartTTL keeps abandoned carts from living in redis forever.
const cartTTL = 30 * 24 * time.Hour

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(ownerKey string) string
	PromoKey(ownerKey string) string
}

// Store mirrors cart contents and the applied promo code to redis so state
// survives across sessions.
type Store struct {
	kv   kvStore
	logg *logger.Logger
}

func NewStore(kv kvStore, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis store is required")
	}
	return &Store{kv: kv, logg: logg}, nil
}

// LoadCart rehydrates the saved cart. Missing or malformed data hydrates as an
// empty cart; that is a silent fallback, not an error.
func (s *Store) LoadCart(ctx context.Context, ownerKey string) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(ownerKey))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.warn(ctx, ownerKey, "stored cart is malformed, starting empty")
		return []LineItem{}, nil
	}
	return items, nil
}

// SaveCart serializes the full cart under the owner's key.
func (s *Store) SaveCart(ctx context.Context, ownerKey string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	return s.kv.Set(ctx, s.kv.CartKey(ownerKey), payload, cartTTL)
}

// LoadPromo returns the applied promo code, or nil when none is applied.
// Malformed data falls back to "no promo applied".
func (s *Store) LoadPromo(ctx context.Context, ownerKey string) (*Promo, error) {
	raw, err := s.kv.Get(ctx, s.kv.PromoKey(ownerKey))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading promo: %w", err)
	}

	var promo Promo
	if err := json.Unmarshal([]byte(raw), &promo); err != nil {
		s.warn(ctx, ownerKey, "stored promo is malformed, treating as absent")
		return nil, nil
	}
	if promo.Code == "" {
		return nil, nil
	}
	return &promo, nil
}

// SavePromo stores the active code, replacing any previous one.
func (s *Store) SavePromo(ctx context.Context, ownerKey string, promo Promo) error {
	payload, err := json.Marshal(promo)
	if err != nil {
		return fmt.Errorf("encoding promo: %w", err)
	}
	return s.kv.Set(ctx, s.kv.PromoKey(ownerKey), payload, cartTTL)
}

// ClearPromo removes the key entirely when no code is applied.
func (s *Store) ClearPromo(ctx context.Context, ownerKey string) error {
	return s.kv.Del(ctx, s.kv.PromoKey(ownerKey))
}

// Clear wipes the cart and the applied promo.
func (s *Store) Clear(ctx context.Context, ownerKey string) error {
	return s.kv.Del(ctx, s.kv.CartKey(ownerKey), s.kv.PromoKey(ownerKey))
}

func (s *Store) warn(ctx context.Context, ownerKey, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "cart_owner", ownerKey), msg)
}
