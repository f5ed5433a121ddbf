package cart

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) CartKey(ownerKey string) string  { return "lp:cart:" + ownerKey }
func (f *fakeKV) PromoKey(ownerKey string) string { return "lp:promo:" + ownerKey }

func TestStoreCartRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(newFakeKV(), nil)
	require.NoError(t, err)

	items := []LineItem{lineItem("120", 2, "SAVE10")}
	require.NoError(t, store.SaveCart(ctx, "user-1", items))

	loaded, err := store.LoadCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, items[0].ProductID, loaded[0].ProductID)
	assert.Equal(t, 2, loaded[0].Quantity)
	assert.True(t, loaded[0].Price.Equal(items[0].Price))
}

func TestStoreMissingKeysHydrateEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(newFakeKV(), nil)
	require.NoError(t, err)

	items, err := store.LoadCart(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, items)

	promo, err := store.LoadPromo(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestStoreMalformedDataFallsBackSilently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, nil)
	require.NoError(t, err)

	kv.data[kv.CartKey("user-1")] = "{not json"
	kv.data[kv.PromoKey("user-1")] = "also not json"

	items, err := store.LoadCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	promo, err := store.LoadPromo(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestStorePromoLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, nil)
	require.NoError(t, err)

	promo := Promo{Code: "SAVE10", DiscountType: "fixed", Value: decimal.NewFromInt(10)}
	require.NoError(t, store.SavePromo(ctx, "user-1", promo))

	loaded, err := store.LoadPromo(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "SAVE10", loaded.Code)

	require.NoError(t, store.ClearPromo(ctx, "user-1"))
	_, hasKey := kv.data[kv.PromoKey("user-1")]
	assert.False(t, hasKey, "clearing must remove the key entirely")
}

func TestStoreClearWipesBothKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, nil)
	require.NoError(t, err)

	require.NoError(t, store.SaveCart(ctx, "user-1", []LineItem{lineItem("10", 1)}))
	require.NoError(t, store.SavePromo(ctx, "user-1", Promo{Code: "X", DiscountType: "fixed", Value: decimal.NewFromInt(1)}))

	require.NoError(t, store.Clear(ctx, "user-1"))
	assert.Empty(t, kv.data)
}
