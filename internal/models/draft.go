package models

import (
	"time"

	"github.com/google/uuid"
)

// PostDraft is the unit of content that gets scheduled, reviewed and
// published. Many drafts reference one ContentBrief (one per target
// platform).
type PostDraft struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	BriefID         string         `gorm:"not null;index;size:36" json:"brief_id"`
	PipelineRunID   string         `gorm:"index;size:36" json:"pipeline_run_id"`
	Stream          ContentStream  `gorm:"not null;size:50" json:"stream"`
	Platform        Platform       `gorm:"not null;size:50;index" json:"platform"`
	Content         string         `gorm:"type:text" json:"content"`
	MediaURLs       StringArray    `gorm:"column:media_urls;type:text[]" json:"media_urls"`
	CTAURL          string         `gorm:"column:cta_url;size:2000" json:"cta_url"`
	Hashtags        StringArray    `gorm:"type:text[]" json:"hashtags"`
	Subreddit       string         `gorm:"size:100" json:"subreddit,omitempty"`
	ScheduledTime   *time.Time     `gorm:"index" json:"scheduled_time"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;not null;default:'pending';index" json:"approval_status"`
	EditedContent   string         `gorm:"type:text" json:"edited_content,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	PublishStatus   PublishStatus  `gorm:"size:20;not null;default:'pending'" json:"publish_status"`
	PublishedAt     *time.Time     `json:"published_at"`
	PostURL         string         `gorm:"column:post_url;size:2000" json:"post_url,omitempty"`
	PlatformPostID  string         `gorm:"size:255" json:"platform_post_id,omitempty"`
	PublishError    string         `gorm:"type:text" json:"publish_error,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPostDraft returns a pending draft for one platform of a brief.
func NewPostDraft(brief *ContentBrief, platform Platform) *PostDraft {
	now := time.Now().UTC()
	return &PostDraft{
		ID:             uuid.NewString(),
		BriefID:        brief.ID,
		Stream:         brief.Stream,
		Platform:       platform,
		MediaURLs:      StringArray{},
		Hashtags:       StringArray{},
		ApprovalStatus: ApprovalPending,
		PublishStatus:  PublishPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EffectiveContent returns the edited content when present, otherwise
// the originally generated content.
func (p *PostDraft) EffectiveContent() string {
	if p.EditedContent != "" {
		return p.EditedContent
	}
	return p.Content
}
