package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rekhigroup/livplus-backend/pkg/enums"
)

// OutboxEvent is an append-only catalog change event written in the same
// transaction as the mutation it describes.
type OutboxEvent struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType    enums.CatalogEventType `gorm:"column:event_type;not null"`
	AggregateID  uuid.UUID              `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload      json.RawMessage        `gorm:"column:payload;type:jsonb;not null"`
	Status       enums.OutboxStatus     `gorm:"column:status;not null;default:'pending'"`
	AttemptCount int                    `gorm:"column:attempt_count;not null;default:0"`
	LastError    *string                `gorm:"column:last_error"`
	PublishedAt  *time.Time             `gorm:"column:published_at"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}
