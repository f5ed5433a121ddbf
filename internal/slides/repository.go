package slide

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
)

// Repository wires hero slide persistence.
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

// List returns the carousel in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.HeroSlide, error) {
	var rows []models.HeroSlide
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one slide.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.HeroSlide, error) {
	var row models.HeroSlide
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new slide row.
func (r *Repository) Create(ctx context.Context, row *models.HeroSlide) (*models.HeroSlide, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the full slide row.
func (r *Repository) Update(ctx context.Context, row *models.HeroSlide) (*models.HeroSlide, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a slide by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.HeroSlide{}).Error
}
