package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
)

// DTO is the public shape of an account. The password hash never leaves the
// service layer.
type DTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	PhotoURL    *string        `json:"photo_url,omitempty"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToDTO converts a stored user row into its public shape.
func ToDTO(row *models.User) *DTO {
	if row == nil {
		return nil
	}
	return &DTO{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		PhotoURL:    row.PhotoURL,
		Role:        row.Role,
		LastLoginAt: row.LastLoginAt,
		CreatedAt:   row.CreatedAt,
	}
}
