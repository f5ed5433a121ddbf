package cart

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	IDsWithPromoCode(ctx context.Context, code string) ([]uuid.UUID, error)
}

type promoLoader interface {
	FindByCode(ctx context.Context, code string) (*models.PromoCode, error)
}

type chargeLoader interface {
	List(ctx context.Context) ([]models.CheckoutCharge, error)
}

// View is the cart as returned to callers: the raw items, the active promo,
// and the derived totals.
type View struct {
	Items  []LineItem
	Promo  types.Option[Promo]
	Totals Totals
}

// Service exposes cart mutation and pricing operations keyed by owner.
type Service interface {
	GetCart(ctx context.Context, ownerKey string) (*View, error)
	AddItem(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, ownerKey string, productID uuid.UUID) (*View, error)
	SetQuantity(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*View, error)
	Clear(ctx context.Context, ownerKey string) error
	ApplyPromoCode(ctx context.Context, ownerKey, code string) (*View, error)
	RemovePromoCode(ctx context.Context, ownerKey string) (*View, error)
}

type service struct {
	store    *Store
	products productLoader
	promos   promoLoader
	charges  chargeLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(store *Store, products productLoader, promos promoLoader, charges chargeLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo loader required")
	}
	if charges == nil {
		return nil, fmt.Errorf("charge loader required")
	}
	return &service{store: store, products: products, promos: promos, charges: charges}, nil
}

func (s *service) GetCart(ctx context.Context, ownerKey string) (*View, error) {
	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) AddItem(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*View, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotApplicable, "product is out of stock")
	}

	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	items = AddItem(items, snapshotLineItem(product, quantity))
	if err := s.store.SaveCart(ctx, ownerKey, items); err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) RemoveItem(ctx context.Context, ownerKey string, productID uuid.UUID) (*View, error) {
	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	items = RemoveItem(items, productID)
	if err := s.store.SaveCart(ctx, ownerKey, items); err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) SetQuantity(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*View, error) {
	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	items = SetQuantity(items, productID, quantity)
	if err := s.store.SaveCart(ctx, ownerKey, items); err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) Clear(ctx context.Context, ownerKey string) error {
	return s.store.Clear(ctx, ownerKey)
}

// ApplyPromoCode validates the code against the live promo collection and the
// cart contents. Failures report back to the caller without touching cart
// state; on success the code replaces any previously applied one.
func (s *service) ApplyPromoCode(ctx context.Context, ownerKey, code string) (*View, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	promoRow, err := s.promos.FindByCode(ctx, code)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotApplicable, "invalid promo code")
		}
		return nil, err
	}

	// eligibility checks run against the stored canonical code, so the entered
	// casing does not matter
	code = promoRow.Code

	eligibleIDs, err := s.products.IDsWithPromoCode(ctx, code)
	if err != nil {
		return nil, err
	}
	inEligibleSet := slices.ContainsFunc(items, func(item LineItem) bool {
		return slices.Contains(eligibleIDs, item.ProductID)
	})
	if !inEligibleSet {
		return nil, pkgerrors.New(pkgerrors.CodeNotApplicable, "promo code is not applicable to items in your cart")
	}

	carriesCode := slices.ContainsFunc(items, func(item LineItem) bool {
		return slices.Contains(item.PromoCodes, code)
	})
	if !carriesCode {
		return nil, pkgerrors.New(pkgerrors.CodeNotApplicable, "promo code is not applicable to items in your cart")
	}

	promo := Promo{
		Code:         promoRow.Code,
		DiscountType: promoRow.DiscountType,
		Value:        promoRow.Value,
	}
	if err := s.store.SavePromo(ctx, ownerKey, promo); err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) RemovePromoCode(ctx context.Context, ownerKey string) (*View, error) {
	if err := s.store.ClearPromo(ctx, ownerKey); err != nil {
		return nil, err
	}
	items, err := s.store.LoadCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, ownerKey, items)
}

func (s *service) view(ctx context.Context, ownerKey string, items []LineItem) (*View, error) {
	promo, err := s.store.LoadPromo(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	chargeRows, err := s.charges.List(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]ChargeRule, 0, len(chargeRows))
	for _, row := range chargeRows {
		rules = append(rules, ChargeRule{Name: row.Name, Type: row.Type, Amount: row.Amount})
	}

	view := &View{
		Items:  items,
		Promo:  types.None[Promo](),
		Totals: ComputeTotals(items, promo, rules),
	}
	if promo != nil {
		view.Promo = types.Some(*promo)
	}
	return view, nil
}

func snapshotLineItem(product *models.Product, quantity int) LineItem {
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0].Src
	}
	return LineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Price:      product.Price,
		Image:      image,
		Stock:      product.Stock,
		PromoCodes: append([]string(nil), product.PromoCodes...),
		Quantity:   quantity,
	}
}
