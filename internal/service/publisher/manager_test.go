package publisher

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

type stubPublisher struct {
	platform models.Platform
}

func (s *stubPublisher) Platform() models.Platform { return s.platform }
func (s *stubPublisher) ValidateCredentials() bool { return true }
func (s *stubPublisher) Publish(context.Context, *models.PostDraft) (*PublishResult, error) {
	return &PublishResult{Success: true, Platform: s.platform}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	stub := &stubPublisher{platform: models.PlatformTwitter}

	if err := registry.Register(stub); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	pub, err := registry.Get(models.PlatformTwitter, false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if pub != Publisher(stub) {
		t.Error("Get returned a different publisher")
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	if err := registry.Register(&stubPublisher{platform: models.PlatformTwitter}); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(&stubPublisher{platform: models.PlatformTwitter}); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestRegistryUnsupportedPlatform(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	_, err := registry.Get(models.PlatformLinkedIn, false)
	if !errors.Is(err, ErrPlatformUnsupported) {
		t.Errorf("got %v, want ErrPlatformUnsupported", err)
	}
}

func TestDryRunKeepsPlatform(t *testing.T) {
	if got := NewDryRun(models.PlatformReddit).Platform(); got != models.PlatformReddit {
		t.Errorf("got %q, want reddit", got)
	}
	// No fallback: an unset platform stays unset
	if got := NewDryRun("").Platform(); got != models.Platform("") {
		t.Errorf("empty platform should stay empty, got %q", got)
	}

	post := &models.PostDraft{ID: "p1", Platform: models.PlatformLinkedIn}
	result, err := NewDryRun("").Publish(context.Background(), post)
	if err != nil {
		t.Fatal(err)
	}
	if result.Platform != models.PlatformLinkedIn {
		t.Errorf("result should report the post's platform, got %q", result.Platform)
	}
}

func TestComposeText(t *testing.T) {
	post := &models.PostDraft{
		Content:  "We shipped it.",
		Hashtags: models.StringArray{"golang", "#release"},
	}
	got := ComposeText(post)
	want := "We shipped it.\n\n#golang #release"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	post.EditedContent = "We really shipped it."
	if got := ComposeText(post); got != "We really shipped it.\n\n#golang #release" {
		t.Errorf("edited content not used: %q", got)
	}

	bare := &models.PostDraft{Content: "no tags"}
	if got := ComposeText(bare); got != "no tags" {
		t.Errorf("got %q, want bare content", got)
	}
}

func TestRegistryDryRunAlwaysAvailable(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	pub, err := registry.Get(models.PlatformTikTok, true)
	if err != nil {
		t.Fatalf("dry run Get failed: %v", err)
	}

	post := &models.PostDraft{ID: "p1", Platform: models.PlatformTikTok}
	result, err := pub.Publish(context.Background(), post)
	if err != nil {
		t.Fatalf("dry run publish failed: %v", err)
	}
	if !result.Success {
		t.Error("dry run publish should succeed")
	}
	if result.PostID != "p1" {
		t.Errorf("result post ID %q, want p1", result.PostID)
	}
	if result.PublishedAt == nil {
		t.Error("dry run result missing published_at")
	}
}
