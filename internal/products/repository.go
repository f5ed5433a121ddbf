package product

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
)

// Repository wires product and review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListFilters narrows the storefront catalog listing.
type ListFilters struct {
	Search   string
	Category string
}

// List returns catalog rows ordered by name for storefront display.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if search := strings.TrimSpace(filters.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []models.Product
	err := query.Find(&rows).Error
	return rows, err
}

// ListPage returns one keyset page of products, newest first, for the admin
// console. The extra row beyond the limit signals another page exists.
func (r *Repository) ListPage(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var rows []models.Product
	err = query.Find(&rows).Error
	return rows, err
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with its reviews for the detail page.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&product, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// usesNativeArrays reports whether the dialect supports text[] operators.
// The sqlite dev mode stores promo_codes as an array literal in a TEXT
// column, so array membership has to be evaluated in Go there.
func (r *Repository) usesNativeArrays() bool {
	return r.db.Dialector.Name() == "postgres"
}

// IDsWithPromoCode returns the ids of products eligible for the code.
func (r *Repository) IDsWithPromoCode(ctx context.Context, code string) ([]uuid.UUID, error) {
	if !r.usesNativeArrays() {
		var rows []models.Product
		if err := r.db.WithContext(ctx).Select("id", "promo_codes").Find(&rows).Error; err != nil {
			return nil, err
		}
		var ids []uuid.UUID
		for _, row := range rows {
			if slices.Contains(row.PromoCodes, code) {
				ids = append(ids, row.ID)
			}
		}
		return ids, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("? = ANY(promo_codes)", code).
		Pluck("id", &ids).
		Error
	return ids, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// AttachPromoCode adds the code to the product's eligibility set atomically;
// attaching an already present code is a no-op.
func (r *Repository) AttachPromoCode(ctx context.Context, id uuid.UUID, code string) error {
	if !r.usesNativeArrays() {
		return r.rewritePromoCodes(ctx, id, func(codes pq.StringArray) pq.StringArray {
			if slices.Contains(codes, code) {
				return codes
			}
			return append(codes, code)
		})
	}
	return r.db.WithContext(ctx).Exec(
		"UPDATE products SET promo_codes = array_append(promo_codes, ?) WHERE id = ? AND NOT (? = ANY(promo_codes))",
		code, id, code,
	).Error
}

// DetachPromoCode removes the code from the product's eligibility set.
func (r *Repository) DetachPromoCode(ctx context.Context, id uuid.UUID, code string) error {
	if !r.usesNativeArrays() {
		return r.rewritePromoCodes(ctx, id, func(codes pq.StringArray) pq.StringArray {
			out := make(pq.StringArray, 0, len(codes))
			for _, c := range codes {
				if c != code {
					out = append(out, c)
				}
			}
			return out
		})
	}
	return r.db.WithContext(ctx).Exec(
		"UPDATE products SET promo_codes = array_remove(promo_codes, ?) WHERE id = ?",
		code, id,
	).Error
}

// rewritePromoCodes is the read-modify-write fallback for dialects without
// array operators. Callers run it inside a transaction.
func (r *Repository) rewritePromoCodes(ctx context.Context, id uuid.UUID, apply func(pq.StringArray) pq.StringArray) error {
	var row models.Product
	if err := r.db.WithContext(ctx).Select("id", "promo_codes").First(&row, "id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("promo_codes", apply(row.PromoCodes)).
		Error
}

// AddReview appends a customer review to the product.
func (r *Repository) AddReview(ctx context.Context, review *models.ProductReview) (*models.ProductReview, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// DecrementStockTx reduces stock by qty when enough stock remains, returning
// false when the guard fails. Runs inside the caller's transaction.
func (r *Repository) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
