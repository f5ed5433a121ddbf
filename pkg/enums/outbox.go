package enums

// OutboxStatus tracks the publish lifecycle of a stored event.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// CatalogEventType names the collection-change events the storefront watches.
type CatalogEventType string

const (
	CatalogEventProducts   CatalogEventType = "products.changed"
	CatalogEventPromoCodes CatalogEventType = "promo_codes.changed"
	CatalogEventCharges    CatalogEventType = "checkout_charges.changed"
	CatalogEventSlides     CatalogEventType = "hero_slides.changed"
	CatalogEventThreads    CatalogEventType = "community_threads.changed"
	CatalogEventOrders     CatalogEventType = "orders.changed"
)

var validCatalogEvents = []CatalogEventType{
	CatalogEventProducts,
	CatalogEventPromoCodes,
	CatalogEventCharges,
	CatalogEventSlides,
	CatalogEventThreads,
	CatalogEventOrders,
}

// String implements fmt.Stringer.
func (t CatalogEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t CatalogEventType) IsValid() bool {
	for _, candidate := range validCatalogEvents {
		if candidate == t {
			return true
		}
	}
	return false
}
