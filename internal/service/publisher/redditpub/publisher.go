package redditpub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
)

// Reddit caps self-post titles at 300 characters.
const maxTitleLen = 300

// Publisher submits self-posts to Reddit using the script-app password
// grant.
type Publisher struct {
	cfg config.RedditConfig
}

func NewPublisher(cfg config.RedditConfig) *Publisher {
	return &Publisher{cfg: cfg}
}

func (p *Publisher) Platform() models.Platform {
	return models.PlatformReddit
}

func (p *Publisher) ValidateCredentials() bool {
	return p.cfg.ClientID != "" && p.cfg.ClientSecret != "" &&
		p.cfg.Username != "" && p.cfg.Password != ""
}

// SplitTitleBody uses the first line of content as the post title
// (capped at the platform limit) and the remainder as the body.
func SplitTitleBody(content string) (title, body string) {
	parts := strings.SplitN(strings.TrimSpace(content), "\n", 2)
	title = parts[0]
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}
	return title, body
}

func (p *Publisher) Publish(ctx context.Context, post *models.PostDraft) (*publisher.PublishResult, error) {
	if !p.ValidateCredentials() {
		return &publisher.PublishResult{
			Success:  false,
			Platform: p.Platform(),
			PostID:   post.ID,
			Error:    "missing Reddit credentials",
		}, nil
	}

	if post.Subreddit == "" {
		return &publisher.PublishResult{
			Success:  false,
			Platform: p.Platform(),
			PostID:   post.ID,
			Error:    "no subreddit specified on post",
		}, nil
	}

	client, err := reddit.NewClient(reddit.Credentials{
		ID:       p.cfg.ClientID,
		Secret:   p.cfg.ClientSecret,
		Username: p.cfg.Username,
		Password: p.cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit client: %w", err)
	}

	title, body := SplitTitleBody(post.EffectiveContent())
	submitted, _, err := client.Post.SubmitText(ctx, reddit.SubmitTextRequest{
		Subreddit: post.Subreddit,
		Title:     title,
		Text:      body,
	})
	if err != nil {
		return nil, fmt.Errorf("reddit API error: %w", err)
	}

	now := time.Now().UTC()
	return &publisher.PublishResult{
		Success:        true,
		Platform:       p.Platform(),
		PostID:         post.ID,
		PlatformPostID: submitted.ID,
		PostURL:        submitted.URL,
		PublishedAt:    &now,
	}, nil
}
