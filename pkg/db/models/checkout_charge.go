package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/pkg/enums"
)

// CheckoutCharge is an admin-managed fee or tax rule applied at checkout.
// Percentage charges are computed against the post-discount subtotal.
type CheckoutCharge struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Type      enums.DiscountType `gorm:"column:type;not null"`
	Amount    decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
