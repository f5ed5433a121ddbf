package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/pkg/enums"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

// Order is a placed order with the cart totals frozen at checkout time.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Items           types.OrderItems      `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Subtotal        decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount        decimal.Decimal       `gorm:"column:discount;type:numeric(12,2);not null"`
	PromoCode       *string               `gorm:"column:promo_code"`
	Charges         types.ChargeLines     `gorm:"column:charges;type:jsonb;serializer:json"`
	GrandTotal      decimal.Decimal       `gorm:"column:grand_total;type:numeric(12,2);not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;not null;default:'cod'"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
