package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunityReply is one answer inside a thread.
type CommunityReply struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ThreadID  uuid.UUID `gorm:"column:thread_id;type:uuid;not null;index"`
	Author    string    `gorm:"column:author;not null"`
	AvatarURL string    `gorm:"column:avatar_url"`
	Text      string    `gorm:"column:text;not null"`
	Likes     int       `gorm:"column:likes;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
