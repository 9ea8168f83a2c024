package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishLogEntry is an append-only record of one publish attempt,
// successful or not. Entries are never updated or deleted.
type PublishLogEntry struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	PostID         string     `gorm:"not null;index;size:36" json:"post_id"`
	Platform       Platform   `gorm:"not null;size:50" json:"platform"`
	Status         string     `gorm:"not null;size:20" json:"status"`
	PlatformPostID string     `gorm:"size:255" json:"platform_post_id,omitempty"`
	PostURL        string     `gorm:"column:post_url;size:2000" json:"post_url,omitempty"`
	Error          string     `gorm:"type:text" json:"error,omitempty"`
	PublishedAt    *time.Time `json:"published_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// NewPublishLogEntry returns a log entry with a fresh ID.
func NewPublishLogEntry(postID string, platform Platform) *PublishLogEntry {
	return &PublishLogEntry{
		ID:       uuid.NewString(),
		PostID:   postID,
		Platform: platform,
	}
}
