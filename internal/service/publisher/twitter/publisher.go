package twitter

import (
	"context"
	"fmt"
	"time"

	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/tweet/managetweet"
	"github.com/michimani/gotwi/tweet/managetweet/types"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
)

// Publisher posts tweets via the Twitter v2 API with OAuth1 user context.
type Publisher struct {
	cfg config.TwitterConfig
}

func NewPublisher(cfg config.TwitterConfig) *Publisher {
	return &Publisher{cfg: cfg}
}

func (p *Publisher) Platform() models.Platform {
	return models.PlatformTwitter
}

func (p *Publisher) ValidateCredentials() bool {
	return p.cfg.APIKey != "" && p.cfg.APIKeySecret != "" &&
		p.cfg.OAuthToken != "" && p.cfg.OAuthTokenSecret != ""
}

func (p *Publisher) Publish(ctx context.Context, post *models.PostDraft) (*publisher.PublishResult, error) {
	if !p.ValidateCredentials() {
		return &publisher.PublishResult{
			Success:  false,
			Platform: p.Platform(),
			PostID:   post.ID,
			Error:    "missing Twitter credentials",
		}, nil
	}

	in := &gotwi.NewClientInput{
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		APIKey:               p.cfg.APIKey,
		APIKeySecret:         p.cfg.APIKeySecret,
		OAuthToken:           p.cfg.OAuthToken,
		OAuthTokenSecret:     p.cfg.OAuthTokenSecret,
	}
	client, err := gotwi.NewClient(in)
	if err != nil {
		return nil, fmt.Errorf("failed to create twitter client: %w", err)
	}

	input := &types.CreateInput{
		Text: gotwi.String(publisher.ComposeText(post)),
	}
	res, err := managetweet.Create(ctx, client, input)
	if err != nil {
		return nil, fmt.Errorf("twitter API error: %w", err)
	}

	tweetID := gotwi.StringValue(res.Data.ID)
	postURL := ""
	if tweetID != "" {
		postURL = fmt.Sprintf("https://twitter.com/i/status/%s", tweetID)
	}
	now := time.Now().UTC()

	return &publisher.PublishResult{
		Success:        true,
		Platform:       p.Platform(),
		PostID:         post.ID,
		PlatformPostID: tweetID,
		PostURL:        postURL,
		PublishedAt:    &now,
	}, nil
}
