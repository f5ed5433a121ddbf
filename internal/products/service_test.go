package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

func setupProductTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)

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
CREATE TABLE IF NOT EXISTS product_reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  author TEXT NOT NULL,
  rating INTEGER NOT NULL,
  text TEXT NOT NULL,
  created_at DATETIME
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
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func setupProductService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := setupProductTestDB(t)
	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(NewRepository(client.DB()), client, events)
	require.NoError(t, err)
	return svc, client
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		Name:             "Ashwagandha Capsules",
		Category:         "supplements",
		ShortDescription: "Stress support capsules",
		Price:            decimal.NewFromInt(499),
		Ingredients:      []string{"ashwagandha root"},
		Images: types.ProductImages{
			{Src: "https://cdn.example.com/ashwagandha.jpg", Alt: "Ashwagandha Capsules"},
		},
		Stock: 25,
	}
}

func outboxEventCount(t *testing.T, client *db.Client, eventType enums.CatalogEventType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().
		Model(&models.OutboxEvent{}).
		Where("event_type = ?", eventType).
		Count(&count).
		Error)
	return count
}

func TestCreateSlugifiesAndEmitsEvent(t *testing.T) {
	svc, client := setupProductService(t)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "ashwagandha-capsules", created.Slug)
	assert.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := svc.GetBySlug(context.Background(), "ashwagandha-capsules")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.True(t, loaded.Price.Equal(decimal.NewFromInt(499)))

	assert.EqualValues(t, 1, outboxEventCount(t, client, enums.CatalogEventProducts))
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := setupProductService(t)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateValidation(t *testing.T) {
	svc, client := setupProductService(t)

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"missing name", func(in *CreateProductInput) { in.Name = " " }},
		{"missing category", func(in *CreateProductInput) { in.Category = "" }},
		{"missing short description", func(in *CreateProductInput) { in.ShortDescription = "" }},
		{"negative price", func(in *CreateProductInput) { in.Price = decimal.NewFromInt(-1) }},
		{"negative stock", func(in *CreateProductInput) { in.Stock = -3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}

	assert.EqualValues(t, 0, outboxEventCount(t, client, enums.CatalogEventProducts))
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, client := setupProductService(t)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(549)
	newStock := 10
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{
		Price: &newPrice,
		Stock: &newStock,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, created.Name, updated.Name)

	assert.EqualValues(t, 2, outboxEventCount(t, client, enums.CatalogEventProducts))
}

func TestUpdateUnknownProductIsNotFound(t *testing.T) {
	svc, _ := setupProductService(t)

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteRemovesProductAndEmitsEvent(t *testing.T) {
	svc, client := setupProductService(t)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	assert.EqualValues(t, 2, outboxEventCount(t, client, enums.CatalogEventProducts))
}

func TestListFiltersBySearchAndCategory(t *testing.T) {
	svc, _ := setupProductService(t)

	seed := func(name, category string) {
		input := validCreateInput()
		input.Name = name
		input.Category = category
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	}
	seed("Neem Face Wash", "skincare")
	seed("Tulsi Drops", "supplements")
	seed("Neem Oil", "haircare")

	rows, err := svc.List(context.Background(), ListFilters{Search: "neem"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Neem Face Wash", rows[0].Name)
	assert.Equal(t, "Neem Oil", rows[1].Name)

	rows, err = svc.List(context.Background(), ListFilters{Category: "supplements"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tulsi Drops", rows[0].Name)
}

func TestAddReviewValidatesAndPersists(t *testing.T) {
	svc, client := setupProductService(t)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.AddReview(context.Background(), created.ID, ReviewInput{Author: "Asha", Rating: 6, Text: "Great"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	review, err := svc.AddReview(context.Background(), created.ID, ReviewInput{Author: "Asha", Rating: 5, Text: "Helped with sleep"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, review.ProductID)

	var count int64
	require.NoError(t, client.DB().Model(&models.ProductReview{}).Where("product_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	svc, _ := setupProductService(t)

	_, err := svc.AddReview(context.Background(), uuid.New(), ReviewInput{Author: "Asha", Rating: 4, Text: "Nice"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDecrementStockGuardsAvailability(t *testing.T) {
	_, client := setupProductService(t)
	repo := NewRepository(client.DB())

	row := &models.Product{
		ID:               uuid.New(),
		Name:             "Brahmi Tablets",
		Slug:             "brahmi-tablets",
		Category:         "supplements",
		ShortDescription: "Memory support",
		Price:            decimal.NewFromInt(299),
		Stock:            3,
	}
	require.NoError(t, client.DB().Create(row).Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		ok, err := repo.DecrementStockTx(tx, row.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		ok, err := repo.DecrementStockTx(tx, row.ID, 2)
		require.NoError(t, err)
		require.False(t, ok, "decrement below zero must be refused")
		return nil
	})
	require.NoError(t, err)

	var stock int
	require.NoError(t, client.DB().Model(&models.Product{}).Where("id = ?", row.ID).Pluck("stock", &stock).Error)
	assert.Equal(t, 1, stock)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ashwagandha Capsules":  "ashwagandha-capsules",
		"  Neem & Tulsi  Soap ": "neem-tulsi-soap",
		"Chyawanprash (500g)":   "chyawanprash-500g",
		"Triphala--Churna":      "triphala-churna",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
