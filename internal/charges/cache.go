package charge

import (
	"context"

	"github.com/rekhigroup/livplus-backend/internal/watch"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

// Cache serves the charge rule set from a live snapshot. The cart recomputes
// totals on every render but the rule set only changes on an admin edit, so
// reads come from the last fetch and the catalog feed nudges a refetch on
// checkout_charges.changed.
type Cache struct {
	svc     Service
	binding *watch.Binding[[]models.CheckoutCharge]
}

// NewCache starts a feed-invalidated binding over the full charge list.
func NewCache(ctx context.Context, svc Service, feed watch.Feed, logg *logger.Logger) *Cache {
	c := &Cache{
		svc:     svc,
		binding: watch.NewCollection[models.CheckoutCharge](feed, logg),
	}
	c.binding.SetQuery(ctx, &watch.Query[[]models.CheckoutCharge]{
		ID:    "checkout-charges",
		Topic: enums.CatalogEventCharges.String(),
		Fetch: func(ctx context.Context) ([]models.CheckoutCharge, error) {
			rows, err := svc.List(ctx)
			if err != nil {
				return nil, err
			}
			if rows == nil {
				// an empty rule set is still a valid snapshot; nil data
				// means "not fetched yet" to readers
				rows = []models.CheckoutCharge{}
			}
			return rows, nil
		},
	})
	return c
}

// List returns the cached rule set. Before the first snapshot lands, or after
// a failed fetch, it falls through to a direct query.
func (c *Cache) List(ctx context.Context) ([]models.CheckoutCharge, error) {
	snap := c.binding.Snapshot()
	if !snap.Loading && snap.Data != nil {
		return snap.Data, nil
	}
	return c.svc.List(ctx)
}

// Close tears the binding down.
func (c *Cache) Close() {
	c.binding.Close()
}
