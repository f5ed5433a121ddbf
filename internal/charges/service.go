package charge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
)

// CreateInput holds the validated payload to create a charge rule.
type CreateInput struct {
	Name   string
	Type   enums.DiscountType
	Amount decimal.Decimal
}

// UpdateInput holds optional mutation values for a charge rule.
type UpdateInput struct {
	Name   *string
	Type   *enums.DiscountType
	Amount *decimal.Decimal
}

// Service exposes the checkout charge rule set for cart pricing and
// management for the admin console.
type Service interface {
	List(ctx context.Context) ([]models.CheckoutCharge, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutCharge, error)
	Create(ctx context.Context, input CreateInput) (*models.CheckoutCharge, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.CheckoutCharge, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.CatalogEvent) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	events   eventEmitter
}

// NewService constructs a checkout charge service instance.
func NewService(repo *Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("charge repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

func (s *service) List(ctx context.Context) ([]models.CheckoutCharge, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing checkout charges")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutCharge, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout charge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout charge")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.CheckoutCharge, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown charge type")
	}
	if err := validateAmount(input.Type, input.Amount); err != nil {
		return nil, err
	}

	row := &models.CheckoutCharge{
		ID:     uuid.New(),
		Name:   name,
		Type:   input.Type,
		Amount: input.Amount,
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventCharges,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "created", "name": row.Name},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating checkout charge")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.CheckoutCharge, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		row.Name = name
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown charge type")
		}
		row.Type = *input.Type
	}
	if input.Amount != nil {
		row.Amount = *input.Amount
	}
	if err := validateAmount(row.Type, row.Amount); err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventCharges,
			AggregateID: row.ID,
			Data:        map[string]string{"action": "updated", "name": row.Name},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating checkout charge")
	}
	return row, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventCharges,
			AggregateID: id,
			Data:        map[string]string{"action": "deleted", "name": row.Name},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting checkout charge")
	}
	return nil
}

func validateAmount(chargeType enums.DiscountType, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if chargeType == enums.DiscountTypePercentage && amount.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage cannot exceed 100")
	}
	return nil
}
