package inquiry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
)

// Repository wires product inquiry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new inquiry row.
func (r *Repository) Create(ctx context.Context, row *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// List returns every inquiry, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Inquiry, error) {
	var rows []models.Inquiry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByProduct returns one product's inquiries, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Inquiry, error) {
	var rows []models.Inquiry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}
