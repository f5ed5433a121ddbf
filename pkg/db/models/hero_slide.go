package models

import (
	"time"

	"github.com/google/uuid"
)

// HeroSlide is one homepage carousel entry managed from the admin console.
type HeroSlide struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Heading    string    `gorm:"column:heading;not null"`
	ButtonText string    `gorm:"column:button_text;not null"`
	ButtonHref string    `gorm:"column:button_href;not null"`
	ImageSrc   string    `gorm:"column:image_src;not null"`
	ImageHint  string    `gorm:"column:image_hint"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
