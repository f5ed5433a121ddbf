package cart

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/pkg/enums"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

// LineItem is a denormalized product snapshot taken at add time. The catalog
// row may change afterwards; the cart keeps pricing what the shopper saw.
type LineItem struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image,omitempty"`
	Stock      int             `json:"stock"`
	PromoCodes []string        `json:"promoCodes"`
	Quantity   int             `json:"quantity"`
}

// Promo is the single active discount on a cart.
type Promo struct {
	Code         string             `json:"code"`
	DiscountType enums.DiscountType `json:"discountType"`
	Value        decimal.Decimal    `json:"value"`
}

// ChargeRule is an active checkout charge applied when totals are computed.
type ChargeRule struct {
	Name   string
	Type   enums.DiscountType
	Amount decimal.Decimal
}

// Totals is the derived pricing breakdown. It is recomputed on every read and
// never stored.
type Totals struct {
	Subtotal         decimal.Decimal   `json:"subtotal"`
	EligibleSubtotal decimal.Decimal   `json:"eligibleSubtotal"`
	Discount         decimal.Decimal   `json:"discount"`
	Charges          types.ChargeLines `json:"charges"`
	GrandTotal       decimal.Decimal   `json:"grandTotal"`
}

// AddItem merges the item into the list, incrementing quantity when the
// product is already present. Quantities below one are coerced to one.
func AddItem(items []LineItem, item LineItem) []LineItem {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	out := slices.Clone(items)
	for i := range out {
		if out[i].ProductID == item.ProductID {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	return append(out, item)
}

// RemoveItem drops the matching line item; no-op when absent.
func RemoveItem(items []LineItem, productID uuid.UUID) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// SetQuantity updates the quantity for the matching item. A quantity of zero
// or less removes the item; zero-quantity lines do not persist.
func SetQuantity(items []LineItem, productID uuid.UUID, quantity int) []LineItem {
	if quantity <= 0 {
		return RemoveItem(items, productID)
	}
	out := slices.Clone(items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = quantity
		}
	}
	return out
}

// ComputeTotals derives the full pricing breakdown. It is pure and idempotent;
// all monetary outputs are rounded to two places.
func ComputeTotals(items []LineItem, promo *Promo, charges []ChargeRule) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	eligible := decimal.Zero
	discount := decimal.Zero
	if promo != nil {
		for _, item := range items {
			if item.Quantity < 1 {
				continue
			}
			if slices.Contains(item.PromoCodes, promo.Code) {
				eligible = eligible.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}
		switch promo.DiscountType {
		case enums.DiscountTypeFixed:
			// A fixed discount never exceeds the subtotal it applies against.
			discount = decimal.Min(eligible, promo.Value)
		case enums.DiscountTypePercentage:
			discount = eligible.Mul(promo.Value).Div(decimal.NewFromInt(100))
		}
		if discount.IsNegative() {
			discount = decimal.Zero
		}
	}

	subtotal = subtotal.Round(2)
	eligible = eligible.Round(2)
	discount = discount.Round(2)

	afterDiscount := subtotal.Sub(discount)
	chargeLines := make(types.ChargeLines, 0, len(charges))
	chargeTotal := decimal.Zero
	for _, rule := range charges {
		line := types.ChargeLine{Name: rule.Name, Amount: rule.Amount.Round(2)}
		if rule.Type == enums.DiscountTypePercentage {
			line.Name = fmt.Sprintf("%s (%s%%)", rule.Name, rule.Amount.String())
			line.Amount = afterDiscount.Mul(rule.Amount).Div(decimal.NewFromInt(100)).Round(2)
		}
		chargeLines = append(chargeLines, line)
		chargeTotal = chargeTotal.Add(line.Amount)
	}

	return Totals{
		Subtotal:         subtotal,
		EligibleSubtotal: eligible,
		Discount:         discount,
		Charges:          chargeLines,
		GrandTotal:       afterDiscount.Add(chargeTotal).Round(2),
	}
}
