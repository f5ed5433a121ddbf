package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
)

// Service exposes catalog read paths for the storefront and product
// management for the admin console.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	ListPage(ctx context.Context, params pagination.Params) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	IDsWithPromoCode(ctx context.Context, code string) ([]uuid.UUID, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachPromoCode(ctx context.Context, id uuid.UUID, code string) error
	DetachPromoCode(ctx context.Context, id uuid.UUID, code string) error
	AddReview(ctx context.Context, productID uuid.UUID, input ReviewInput) (*models.ProductReview, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.CatalogEvent) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	events   eventEmitter
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return rows, nil
}

func (s *service) ListPage(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	rows, err := s.repo.ListPage(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing products page")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return row, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return row, nil
}

func (s *service) IDsWithPromoCode(ctx context.Context, code string) ([]uuid.UUID, error) {
	ids, err := s.repo.IDsWithPromoCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving promo eligibility")
	}
	return ids, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Name)
	}

	row := &models.Product{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(input.Name),
		Slug:                 slug,
		Category:             strings.TrimSpace(input.Category),
		SubCategory:          strings.TrimSpace(input.SubCategory),
		ShortDescription:     strings.TrimSpace(input.ShortDescription),
		LongDescription:      input.LongDescription,
		Price:                input.Price,
		OriginalPrice:        input.OriginalPrice,
		Ingredients:          pq.StringArray(input.Ingredients),
		Benefits:             pq.StringArray(input.Benefits),
		Treats:               pq.StringArray(input.Treats),
		Uses:                 input.Uses,
		ManufacturingDetails: input.ManufacturingDetails,
		Images:               input.Images,
		Stock:                input.Stock,
		PromoCodes:           pq.StringArray{},
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventProducts,
			AggregateID: row.ID,
			Data:        catalogChange("created", row.Slug),
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(row, input)
	if row.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if row.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventProducts,
			AggregateID: row.ID,
			Data:        catalogChange("updated", row.Slug),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
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
			EventType:   enums.CatalogEventProducts,
			AggregateID: id,
			Data:        catalogChange("deleted", row.Slug),
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

func (s *service) AttachPromoCode(ctx context.Context, id uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).AttachPromoCode(ctx, id, code); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventProducts,
			AggregateID: id,
			Data:        catalogChange("promo_attached", code),
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching promo code")
	}
	return nil
}

func (s *service) DetachPromoCode(ctx context.Context, id uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DetachPromoCode(ctx, id, code); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.CatalogEvent{
			EventType:   enums.CatalogEventProducts,
			AggregateID: id,
			Data:        catalogChange("promo_detached", code),
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detaching promo code")
	}
	return nil
}

func (s *service) AddReview(ctx context.Context, productID uuid.UUID, input ReviewInput) (*models.ProductReview, error) {
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review author is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review text is required")
	}
	if _, err := s.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.ProductReview{
		ID:        uuid.New(),
		ProductID: productID,
		Author:    strings.TrimSpace(input.Author),
		Rating:    input.Rating,
		Text:      strings.TrimSpace(input.Text),
	}
	if _, err := s.repo.AddReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving review")
	}
	return review, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if strings.TrimSpace(input.ShortDescription) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "short description is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func applyUpdate(row *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		row.Category = strings.TrimSpace(*input.Category)
	}
	if input.SubCategory != nil {
		row.SubCategory = strings.TrimSpace(*input.SubCategory)
	}
	if input.ShortDescription != nil {
		row.ShortDescription = strings.TrimSpace(*input.ShortDescription)
	}
	if input.LongDescription != nil {
		row.LongDescription = *input.LongDescription
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		row.OriginalPrice = input.OriginalPrice
	}
	if input.Ingredients != nil {
		row.Ingredients = pq.StringArray(*input.Ingredients)
	}
	if input.Benefits != nil {
		row.Benefits = pq.StringArray(*input.Benefits)
	}
	if input.Treats != nil {
		row.Treats = pq.StringArray(*input.Treats)
	}
	if input.Uses != nil {
		row.Uses = *input.Uses
	}
	if input.ManufacturingDetails != nil {
		row.ManufacturingDetails = *input.ManufacturingDetails
	}
	if input.Images != nil {
		row.Images = *input.Images
	}
	if input.Stock != nil {
		row.Stock = *input.Stock
	}
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleanRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func catalogChange(action, ref string) map[string]string {
	return map[string]string{"action": action, "ref": ref}
}
