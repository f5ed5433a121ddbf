package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the denormalized line snapshot stored on a placed order.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderItems is the jsonb-serialized item list.
type OrderItems []OrderItem

// ChargeLine is one resolved checkout charge amount, labeled for display.
type ChargeLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ChargeLines is the jsonb-serialized charge breakdown.
type ChargeLines []ChargeLine
