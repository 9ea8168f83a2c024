package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentBrief describes a single topic to write posts about. Briefs are
// produced by the research stage and never mutated afterwards.
type ContentBrief struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	PipelineRunID  string        `gorm:"not null;index;size:36" json:"pipeline_run_id"`
	Topic          string        `gorm:"not null;size:500" json:"topic"`
	Angle          string        `gorm:"type:text" json:"angle"`
	TargetAudience string        `gorm:"size:500" json:"target_audience"`
	RelevantLinks  StringArray   `gorm:"type:text[]" json:"relevant_links"`
	Stream         ContentStream `gorm:"not null;size:50" json:"stream"`
	Platforms      StringArray   `gorm:"type:text[]" json:"platforms"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// NewContentBrief returns a brief with a fresh ID and creation time.
func NewContentBrief(topic, angle, audience string, stream ContentStream, platforms []Platform) *ContentBrief {
	names := make(StringArray, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}
	return &ContentBrief{
		ID:             uuid.NewString(),
		Topic:          topic,
		Angle:          angle,
		TargetAudience: audience,
		RelevantLinks:  StringArray{},
		Stream:         stream,
		Platforms:      names,
		CreatedAt:      time.Now().UTC(),
	}
}

// TargetPlatforms converts the stored platform names back to Platform values.
func (b *ContentBrief) TargetPlatforms() []Platform {
	platforms := make([]Platform, 0, len(b.Platforms))
	for _, name := range b.Platforms {
		platforms = append(platforms, Platform(name))
	}
	return platforms
}
