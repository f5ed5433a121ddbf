package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekhigroup/livplus-backend/internal/cart"
	product "github.com/rekhigroup/livplus-backend/internal/products"
	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

type stubCarts struct {
	views   map[string]*cart.View
	cleared []string
}

func (s *stubCarts) GetCart(ctx context.Context, ownerKey string) (*cart.View, error) {
	if view, ok := s.views[ownerKey]; ok {
		return view, nil
	}
	return &cart.View{}, nil
}

func (s *stubCarts) Clear(ctx context.Context, ownerKey string) error {
	s.cleared = append(s.cleared, ownerKey)
	return nil
}

type orderFixture struct {
	svc    Service
	carts  *stubCarts
	client *db.Client
}

func setupOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL,
  sub_category TEXT NOT NULL DEFAULT '',
  short_description TEXT NOT NULL DEFAULT '',
  long_description TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  original_price NUMERIC,
  ingredients TEXT NOT NULL DEFAULT '{}',
  benefits TEXT NOT NULL DEFAULT '{}',
  treats TEXT NOT NULL DEFAULT '{}',
  uses TEXT,
  manufacturing_details TEXT,
  images TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  promo_codes TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  items TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  discount NUMERIC NOT NULL,
  promo_code TEXT,
  charges TEXT,
  grand_total NUMERIC NOT NULL,
  shipping_address TEXT NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'cod',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  published_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, client.DB().Exec(ddl).Error)

	carts := &stubCarts{views: map[string]*cart.View{}}
	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(
		NewRepository(client.DB()),
		client,
		carts,
		product.NewRepository(client.DB()),
		events,
		nil,
	)
	require.NoError(t, err)
	return &orderFixture{svc: svc, carts: carts, client: client}
}

func (f *orderFixture) seedProduct(t *testing.T, name string, stock int) uuid.UUID {
	t.Helper()
	row := &models.Product{
		ID:               uuid.New(),
		Name:             name,
		Slug:             product.Slugify(name) + "-" + uuid.NewString()[:8],
		Category:         "supplements",
		ShortDescription: name,
		Price:            decimal.NewFromInt(100),
		Stock:            stock,
	}
	require.NoError(t, f.client.DB().Create(row).Error)
	return row.ID
}

func (f *orderFixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var stock int
	require.NoError(t, f.client.DB().
		Model(&models.Product{}).
		Where("id = ?", id).
		Pluck("stock", &stock).
		Error)
	return stock
}

func validAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:      "Asha Verma",
		StreetAddress: "14 MG Road",
		City:          "Pune",
		State:         "Maharashtra",
		Pincode:       "411001",
		PhoneNumber:   "9876543210",
	}
}

func cartViewFor(productID uuid.UUID, name string, qty int, price int64) *cart.View {
	items := []cart.LineItem{{
		ProductID: productID,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
	}}
	subtotal := decimal.NewFromInt(price * int64(qty))
	return &cart.View{
		Items: items,
		Totals: cart.Totals{
			Subtotal:   subtotal,
			Discount:   decimal.Zero,
			GrandTotal: subtotal,
		},
	}
}

func TestPlaceOrderSnapshotsCartAndDecrementsStock(t *testing.T) {
	f := setupOrderFixture(t)
	userID := uuid.New()
	productID := f.seedProduct(t, "Ashwagandha Capsules", 10)
	f.carts.views[userID.String()] = cartViewFor(productID, "Ashwagandha Capsules", 3, 100)

	placed, err := f.svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, placed.Status)
	assert.True(t, placed.GrandTotal.Equal(decimal.NewFromInt(300)))
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 3, placed.Items[0].Quantity)

	assert.Equal(t, 7, f.stockOf(t, productID))
	assert.Equal(t, []string{userID.String()}, f.carts.cleared)

	var eventCount int64
	require.NoError(t, f.client.DB().
		Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.CatalogEventOrders).
		Count(&eventCount).
		Error)
	assert.EqualValues(t, 1, eventCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := setupOrderFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotApplicable, typed.Code())
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := setupOrderFixture(t)
	userID := uuid.New()
	productID := f.seedProduct(t, "Brahmi Tablets", 2)
	f.carts.views[userID.String()] = cartViewFor(productID, "Brahmi Tablets", 5, 100)

	_, err := f.svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotApplicable, typed.Code())

	assert.Equal(t, 2, f.stockOf(t, productID), "failed checkout must not burn stock")
	assert.Empty(t, f.carts.cleared, "failed checkout must keep the cart")

	var orderCount int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := setupOrderFixture(t)
	userID := uuid.New()

	input := PlaceOrderInput{ShippingAddress: validAddress(), PaymentMethod: enums.PaymentMethodCOD}

	missingCity := input
	missingCity.ShippingAddress.City = " "
	_, err := f.svc.PlaceOrder(context.Background(), userID, missingCity)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	badPayment := input
	badPayment.PaymentMethod = "barter"
	_, err = f.svc.PlaceOrder(context.Background(), userID, badPayment)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestOrderHistoryIsScopedToUser(t *testing.T) {
	f := setupOrderFixture(t)
	alice := uuid.New()
	bob := uuid.New()

	productID := f.seedProduct(t, "Tulsi Drops", 20)
	f.carts.views[alice.String()] = cartViewFor(productID, "Tulsi Drops", 1, 100)

	placed, err := f.svc.PlaceOrder(context.Background(), alice, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodOnline,
	})
	require.NoError(t, err)

	rows, err := f.svc.ListForUser(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = f.svc.ListForUser(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.svc.GetForUser(context.Background(), bob, placed.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	loaded, err := f.svc.GetForUser(context.Background(), alice, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, loaded.ID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := setupOrderFixture(t)
	userID := uuid.New()
	productID := f.seedProduct(t, "Neem Oil", 5)
	f.carts.views[userID.String()] = cartViewFor(productID, "Neem Oil", 1, 100)

	placed, err := f.svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), placed.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	_, err = f.svc.UpdateStatus(context.Background(), placed.ID, "lost")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = f.svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusCancelled)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestPlaceOrderCarriesPromoSnapshot(t *testing.T) {
	f := setupOrderFixture(t)
	userID := uuid.New()
	productID := f.seedProduct(t, "Chyawanprash", 8)

	view := cartViewFor(productID, "Chyawanprash", 2, 100)
	view.Promo = types.Some(cart.Promo{
		Code:         "SAVE50",
		DiscountType: enums.DiscountTypeFixed,
		Value:        decimal.NewFromInt(50),
	})
	view.Totals.Discount = decimal.NewFromInt(50)
	view.Totals.GrandTotal = decimal.NewFromInt(150)
	f.carts.views[userID.String()] = view

	placed, err := f.svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.NoError(t, err)

	require.NotNil(t, placed.PromoCode)
	assert.Equal(t, "SAVE50", *placed.PromoCode)
	assert.True(t, placed.GrandTotal.Equal(decimal.NewFromInt(150)))
}
