package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/pkg/types"
)

// Product represents one catalog listing. The cart denormalizes a snapshot of
// the fields it needs at add time; this row stays the canonical record.
type Product struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string              `gorm:"column:name;not null"`
	Slug                 string              `gorm:"column:slug;not null;uniqueIndex"`
	Category             string              `gorm:"column:category;not null"`
	SubCategory          string              `gorm:"column:sub_category;not null"`
	ShortDescription     string              `gorm:"column:short_description;not null"`
	LongDescription      string              `gorm:"column:long_description"`
	Price                decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice        *decimal.Decimal    `gorm:"column:original_price;type:numeric(12,2)"`
	Ingredients          pq.StringArray      `gorm:"column:ingredients;type:text[];not null;default:ARRAY[]::text[]"`
	Benefits             pq.StringArray      `gorm:"column:benefits;type:text[];not null;default:ARRAY[]::text[]"`
	Treats               pq.StringArray      `gorm:"column:treats;type:text[];not null;default:ARRAY[]::text[]"`
	Uses                 string              `gorm:"column:uses"`
	ManufacturingDetails string              `gorm:"column:manufacturing_details"`
	Images               types.ProductImages `gorm:"column:images;type:jsonb;serializer:json"`
	Stock                int                 `gorm:"column:stock;not null;default:0"`
	PromoCodes           pq.StringArray      `gorm:"column:promo_codes;type:text[];not null;default:ARRAY[]::text[]"`
	Reviews              []ProductReview     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
