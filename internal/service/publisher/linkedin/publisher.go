package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
)

const ugcPostsURL = "https://api.linkedin.com/v2/ugcPosts"

// Publisher creates LinkedIn posts via the v2 UGC Posts API.
type Publisher struct {
	cfg        config.LinkedInConfig
	httpClient *http.Client
}

func NewPublisher(cfg config.LinkedInConfig) *Publisher {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = 30 * time.Second

	return &Publisher{
		cfg:        cfg,
		httpClient: client,
	}
}

func (p *Publisher) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (p *Publisher) ValidateCredentials() bool {
	return p.cfg.AccessToken != "" && p.cfg.PersonID != ""
}

func (p *Publisher) Publish(ctx context.Context, post *models.PostDraft) (*publisher.PublishResult, error) {
	if !p.ValidateCredentials() {
		return &publisher.PublishResult{
			Success:  false,
			Platform: p.Platform(),
			PostID:   post.ID,
			Error:    "missing LinkedIn access token or person ID",
		}, nil
	}

	payload := map[string]interface{}{
		"author":         fmt.Sprintf("urn:li:person:%s", p.cfg.PersonID),
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": publisher.ComposeText(post)},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode linkedin payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ugcPostsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create linkedin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		snippet := string(raw)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("linkedin API error %d: %s", resp.StatusCode, snippet)
	}

	postURN := resp.Header.Get("x-restli-id")
	postURL := ""
	if postURN != "" {
		postURL = fmt.Sprintf("https://www.linkedin.com/feed/update/%s", postURN)
	}
	now := time.Now().UTC()

	return &publisher.PublishResult{
		Success:        true,
		Platform:       p.Platform(),
		PostID:         post.ID,
		PlatformPostID: postURN,
		PostURL:        postURL,
		PublishedAt:    &now,
	}, nil
}
