package redditpub

import (
	"context"
	"strings"
	"testing"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
)

func TestSplitTitleBody(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "title and body",
			content:   "A new release\n\nDetails about the release here.",
			wantTitle: "A new release",
			wantBody:  "Details about the release here.",
		},
		{
			name:      "single line",
			content:   "Just a title",
			wantTitle: "Just a title",
			wantBody:  "",
		},
		{
			name:      "leading whitespace",
			content:   "  \nActual title\nbody",
			wantTitle: "Actual title",
			wantBody:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := SplitTitleBody(tt.content)
			if title != tt.wantTitle {
				t.Errorf("title %q, want %q", title, tt.wantTitle)
			}
			if body != tt.wantBody {
				t.Errorf("body %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestSplitTitleBodyCapsTitle(t *testing.T) {
	long := strings.Repeat("t", 400) + "\nbody"
	title, body := SplitTitleBody(long)
	if len(title) != 300 {
		t.Errorf("title length %d, want 300", len(title))
	}
	if body != "body" {
		t.Errorf("body %q, want body", body)
	}
}

func TestPublishWithoutCredentials(t *testing.T) {
	pub := NewPublisher(config.RedditConfig{})

	post := &models.PostDraft{ID: "p1", Platform: models.PlatformReddit, Subreddit: "golang"}
	result, err := pub.Publish(context.Background(), post)
	if err != nil {
		t.Fatalf("missing credentials must be a failed result, not an error: %v", err)
	}
	if result.Success {
		t.Error("expected failure without credentials")
	}
	if !strings.Contains(result.Error, "credentials") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestPublishWithoutSubreddit(t *testing.T) {
	pub := NewPublisher(config.RedditConfig{
		ClientID: "id", ClientSecret: "secret", Username: "u", Password: "p",
	})

	post := &models.PostDraft{ID: "p1", Platform: models.PlatformReddit}
	result, err := pub.Publish(context.Background(), post)
	if err != nil {
		t.Fatalf("missing subreddit must be a failed result, not an error: %v", err)
	}
	if result.Success {
		t.Error("expected failure without a subreddit")
	}
	if !strings.Contains(result.Error, "subreddit") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}
