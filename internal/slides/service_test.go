package slide

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
)

func setupSlideService(t *testing.T) (Service, *db.Client) {
	t.Helper()

	dsn := "file:slides_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ddl := `
CREATE TABLE IF NOT EXISTS hero_slides (
  id TEXT PRIMARY KEY,
  heading TEXT NOT NULL,
  button_text TEXT NOT NULL,
  button_href TEXT NOT NULL,
  image_src TEXT NOT NULL,
  image_hint TEXT,
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

	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(NewRepository(client.DB()), client, events)
	require.NoError(t, err)
	return svc, client
}

func validSlideInput() CreateInput {
	return CreateInput{
		Heading:    "Monsoon Immunity Sale",
		ButtonText: "Shop Now",
		ButtonHref: "/products?category=supplements",
		ImageSrc:   "https://cdn.example.com/hero/monsoon.jpg",
		ImageHint:  "herbal bottles on a leaf background",
	}
}

func slideEventCount(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().
		Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.CatalogEventSlides).
		Count(&count).
		Error)
	return count
}

func TestCreateSlideEmitsEvent(t *testing.T) {
	svc, client := setupSlideService(t)

	created, err := svc.Create(context.Background(), validSlideInput())
	require.NoError(t, err)
	assert.Equal(t, "Monsoon Immunity Sale", created.Heading)
	assert.EqualValues(t, 1, slideEventCount(t, client))
}

func TestCreateSlideValidation(t *testing.T) {
	svc, _ := setupSlideService(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing heading", func(in *CreateInput) { in.Heading = " " }},
		{"missing button text", func(in *CreateInput) { in.ButtonText = "" }},
		{"missing button href", func(in *CreateInput) { in.ButtonHref = "" }},
		{"missing image src", func(in *CreateInput) { in.ImageSrc = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validSlideInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateSlideCannotBlankRequiredField(t *testing.T) {
	svc, _ := setupSlideService(t)

	created, err := svc.Create(context.Background(), validSlideInput())
	require.NoError(t, err)

	blank := "  "
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Heading: &blank})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	heading := "Winter Wellness"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Heading: &heading})
	require.NoError(t, err)
	assert.Equal(t, "Winter Wellness", updated.Heading)
	assert.Equal(t, created.ButtonText, updated.ButtonText)
}

func TestDeleteSlideEmitsEvent(t *testing.T) {
	svc, client := setupSlideService(t)

	created, err := svc.Create(context.Background(), validSlideInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.EqualValues(t, 2, slideEventCount(t, client))
}

func TestGetUnknownSlideIsNotFound(t *testing.T) {
	svc, _ := setupSlideService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
