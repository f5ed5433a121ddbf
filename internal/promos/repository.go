package promo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
)

// Repository wires promo code persistence.
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

// List returns every promo code, newest first.
func (r *Repository) List(ctx context.Context) ([]models.PromoCode, error) {
	var rows []models.PromoCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one promo code.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	var row models.PromoCode
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByCode resolves a promo by its case-insensitive code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var row models.PromoCode
	err := r.db.WithContext(ctx).
		First(&row, "LOWER(code) = ?", strings.ToLower(code)).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new promo code row.
func (r *Repository) Create(ctx context.Context, row *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the full promo code row.
func (r *Repository) Update(ctx context.Context, row *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a promo code by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PromoCode{}).Error
}
