package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CommunityThread is one Q&A question with counters updated atomically.
type CommunityThread struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Author    string           `gorm:"column:author;not null"`
	AvatarURL string           `gorm:"column:avatar_url"`
	Question  string           `gorm:"column:question;not null"`
	Details   string           `gorm:"column:details"`
	Tags      pq.StringArray   `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Likes     int              `gorm:"column:likes;not null;default:0"`
	Views     int              `gorm:"column:views;not null;default:0"`
	Replies   []CommunityReply `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
