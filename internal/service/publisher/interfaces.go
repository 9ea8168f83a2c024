package publisher

import (
	"context"
	"strings"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// PublishResult represents the outcome of one publish attempt. Results
// are ephemeral values; the publish service copies them into the
// append-only publish log.
type PublishResult struct {
	Success        bool            `json:"success"`
	Platform       models.Platform `json:"platform"`
	PostID         string          `json:"post_id"`
	PlatformPostID string          `json:"platform_post_id,omitempty"`
	PostURL        string          `json:"post_url,omitempty"`
	Error          string          `json:"error,omitempty"`
	PublishedAt    *time.Time      `json:"published_at,omitempty"`
}

// Publisher delivers a post draft to one external platform.
type Publisher interface {
	Platform() models.Platform

	// Publish attempts delivery of the post. A non-nil error means the
	// platform call itself failed; callers convert it into a failed
	// PublishResult rather than aborting a batch.
	Publish(ctx context.Context, post *models.PostDraft) (*PublishResult, error)

	// ValidateCredentials reports whether the publisher has everything
	// it needs configured to make real API calls.
	ValidateCredentials() bool
}

// DryRun simulates a successful publish without any network call.
type DryRun struct {
	platform models.Platform
}

func NewDryRun(platform models.Platform) *DryRun {
	return &DryRun{platform: platform}
}

func (d *DryRun) Platform() models.Platform {
	return d.platform
}

func (d *DryRun) Publish(_ context.Context, post *models.PostDraft) (*PublishResult, error) {
	now := time.Now().UTC()
	return &PublishResult{
		Success:        true,
		Platform:       post.Platform,
		PostID:         post.ID,
		PlatformPostID: "dry-run-id",
		PostURL:        "https://example.com/dry-run",
		PublishedAt:    &now,
	}, nil
}

func (d *DryRun) ValidateCredentials() bool {
	return true
}

// ComposeText renders the post body with its hashtags appended, for
// platforms that carry hashtags inline.
func ComposeText(post *models.PostDraft) string {
	text := post.EffectiveContent()
	if len(post.Hashtags) == 0 {
		return text
	}

	tags := make([]string, 0, len(post.Hashtags))
	for _, tag := range post.Hashtags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tags = append(tags, tag)
	}
	return text + "\n\n" + strings.Join(tags, " ")
}
