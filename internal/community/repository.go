package community

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
)

// Repository wires community thread and reply persistence.
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

// ListThreads returns the board newest-first without reply bodies.
func (r *Repository) ListThreads(ctx context.Context) ([]models.CommunityThread, error) {
	var rows []models.CommunityThread
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindThread loads one thread with its replies oldest-first.
func (r *Repository) FindThread(ctx context.Context, id uuid.UUID) (*models.CommunityThread, error) {
	var row models.CommunityThread
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateThread inserts a new question.
func (r *Repository) CreateThread(ctx context.Context, row *models.CommunityThread) (*models.CommunityThread, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListReplies returns a thread's replies oldest-first.
func (r *Repository) ListReplies(ctx context.Context, threadID uuid.UUID) ([]models.CommunityReply, error) {
	var rows []models.CommunityReply
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateReply inserts an answer into a thread.
func (r *Repository) CreateReply(ctx context.Context, row *models.CommunityReply) (*models.CommunityReply, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// IncrementLikes bumps the thread's like counter atomically, returning false
// when the thread does not exist.
func (r *Repository) IncrementLikes(ctx context.Context, threadID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommunityThread{}).
		Where("id = ?", threadID).
		Update("likes", gorm.Expr("likes + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementViews bumps the thread's view counter atomically, returning false
// when the thread does not exist.
func (r *Repository) IncrementViews(ctx context.Context, threadID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommunityThread{}).
		Where("id = ?", threadID).
		Update("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ThreadExists reports whether the thread id resolves to a row.
func (r *Repository) ThreadExists(ctx context.Context, threadID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityThread{}).
		Where("id = ?", threadID).
		Count(&count).
		Error
	return count > 0, err
}
