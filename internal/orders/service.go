package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/internal/cart"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

type cartReader interface {
	GetCart(ctx context.Context, ownerKey string) (*cart.View, error)
	Clear(ctx context.Context, ownerKey string) error
}

type stockKeeper interface {
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.CatalogEvent) error
}

// PlaceOrderInput holds the checkout payload beyond the cart itself.
type PlaceOrderInput struct {
	ShippingAddress types.ShippingAddress
	PaymentMethod   enums.PaymentMethod
}

// Service places orders from the live cart and exposes order history.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListPage(ctx context.Context, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	carts    cartReader
	stock    stockKeeper
	events   eventEmitter
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, carts cartReader, stock stockKeeper, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, carts: carts, stock: stock, events: events, logg: logg}, nil
}

// PlaceOrder freezes the live cart into an order. Stock is decremented and
// the order row written in one transaction; the cart is cleared only after
// the commit so a failed checkout leaves it intact.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateAddress(input.ShippingAddress); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	ownerKey := userID.String()
	view, err := s.carts.GetCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotApplicable, "cart is empty")
	}

	row := buildOrder(userID, view, input)
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range view.Items {
			ok, err := s.stock.DecrementStockTx(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotApplicable,
					fmt.Sprintf("insufficient stock for %s", item.Name))
			}
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventOrders,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "placed", "status": row.Status.String()},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "placing order")
	}

	if err := s.carts.Clear(ctx, ownerKey); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "order_id", row.ID.String())
		s.logg.Warn(logCtx, "order placed but cart clear failed")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":    row.ID.String(),
			"grand_total": row.GrandTotal.String(),
		})
		s.logg.Info(logCtx, "order placed")
	}
	return row, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	// another user's order id reads the same as a missing one
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return row, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return rows, nil
}

func (s *service) ListPage(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	rows, err := s.repo.ListPage(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing orders page")
	}
	return rows, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	ok, err := s.repo.UpdateStatus(ctx, orderID, status.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return row, nil
}

func buildOrder(userID uuid.UUID, view *cart.View, input PlaceOrderInput) *models.Order {
	items := make(types.OrderItems, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, types.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	var promoCode *string
	if promo, ok := view.Promo.Get(); ok {
		code := promo.Code
		promoCode = &code
	}

	return &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		Subtotal:        view.Totals.Subtotal,
		Discount:        view.Totals.Discount,
		PromoCode:       promoCode,
		Charges:         view.Totals.Charges,
		GrandTotal:      view.Totals.GrandTotal,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          enums.OrderStatusPending,
	}
}

func validateAddress(addr types.ShippingAddress) error {
	required := []struct {
		value string
		label string
	}{
		{addr.FullName, "full name"},
		{addr.StreetAddress, "street address"},
		{addr.City, "city"},
		{addr.State, "state"},
		{addr.Pincode, "pincode"},
		{addr.PhoneNumber, "phone number"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field.label+" is required")
		}
	}
	return nil
}
