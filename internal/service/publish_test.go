package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
)

// scriptedPublisher succeeds for every post except those in failIDs.
type scriptedPublisher struct {
	platform models.Platform
	failIDs  map[string]bool
	calls    []string
}

func (p *scriptedPublisher) Platform() models.Platform { return p.platform }

func (p *scriptedPublisher) ValidateCredentials() bool { return true }

func (p *scriptedPublisher) Publish(_ context.Context, post *models.PostDraft) (*publisher.PublishResult, error) {
	p.calls = append(p.calls, post.ID)
	if p.failIDs[post.ID] {
		return nil, fmt.Errorf("platform rejected post %s", post.ID)
	}
	now := time.Now().UTC()
	return &publisher.PublishResult{
		Success:        true,
		Platform:       p.platform,
		PostID:         post.ID,
		PlatformPostID: "ext-" + post.ID,
		PostURL:        "https://example.com/" + post.ID,
		PublishedAt:    &now,
	}, nil
}

func newPublishFixture(t *testing.T, store *fakeStore, pubs ...publisher.Publisher) *PublishService {
	t.Helper()
	registry := publisher.NewRegistry(zap.NewNop())
	for _, pub := range pubs {
		if err := registry.Register(pub); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}
	return NewPublishService(store, registry, zap.NewNop())
}

func approvedDraft(id string, platform models.Platform, at time.Time) *models.PostDraft {
	post := scheduledDraft(id, platform, models.StreamProjectMarketing, at)
	post.ApprovalStatus = models.ApprovalApproved
	return post
}

func TestPublishSingleNotFound(t *testing.T) {
	svc := newPublishFixture(t, newFakeStore())

	_, err := svc.PublishSingle(context.Background(), "missing", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPublishSingleNotApproved(t *testing.T) {
	for _, status := range []models.ApprovalStatus{models.ApprovalPending, models.ApprovalRejected} {
		post := testDraft("p1", models.PlatformTwitter, models.StreamProjectMarketing)
		post.ApprovalStatus = status
		store := newFakeStore(post)
		svc := newPublishFixture(t, store)

		_, err := svc.PublishSingle(context.Background(), "p1", false)
		if !errors.Is(err, ErrNotApproved) {
			t.Errorf("status %s: got %v, want ErrNotApproved", status, err)
		}
		if len(store.logs) != 0 {
			t.Errorf("status %s: precondition failure must not be logged", status)
		}
	}
}

func TestPublishSingleSuccess(t *testing.T) {
	at := time.Now().UTC().Add(-time.Hour)
	store := newFakeStore(approvedDraft("p1", models.PlatformTwitter, at))
	pub := &scriptedPublisher{platform: models.PlatformTwitter}
	svc := newPublishFixture(t, store, pub)

	result, err := svc.PublishSingle(context.Background(), "p1", false)
	if err != nil {
		t.Fatalf("PublishSingle failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}

	post := store.posts["p1"]
	if post.PublishStatus != models.PublishPublished {
		t.Errorf("got publish status %s, want published", post.PublishStatus)
	}
	if post.PostURL != "https://example.com/p1" {
		t.Errorf("post URL not persisted: %q", post.PostURL)
	}
	if post.PlatformPostID != "ext-p1" {
		t.Errorf("platform post ID not persisted: %q", post.PlatformPostID)
	}
	if post.PublishedAt == nil {
		t.Error("published_at not persisted")
	}

	logs := store.logsFor("p1")
	if len(logs) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(logs))
	}
	if logs[0].Status != string(models.PublishPublished) {
		t.Errorf("log status %s, want published", logs[0].Status)
	}
}

func TestPublishSingleEditedPostUsesPublisher(t *testing.T) {
	at := time.Now().UTC().Add(-time.Hour)
	post := scheduledDraft("p1", models.PlatformTwitter, models.StreamProjectMarketing, at)
	post.ApprovalStatus = models.ApprovalEdited
	post.EditedContent = "edited"
	store := newFakeStore(post)
	pub := &scriptedPublisher{platform: models.PlatformTwitter}
	svc := newPublishFixture(t, store, pub)

	result, err := svc.PublishSingle(context.Background(), "p1", false)
	if err != nil {
		t.Fatalf("PublishSingle failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("edited post should be publishable, got %q", result.Error)
	}
}

func TestPublishSingleFailureIsResultNotError(t *testing.T) {
	at := time.Now().UTC().Add(-time.Hour)
	store := newFakeStore(approvedDraft("p1", models.PlatformTwitter, at))
	pub := &scriptedPublisher{platform: models.PlatformTwitter, failIDs: map[string]bool{"p1": true}}
	svc := newPublishFixture(t, store, pub)

	result, err := svc.PublishSingle(context.Background(), "p1", false)
	if err != nil {
		t.Fatalf("publish failure must not surface as error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failed result")
	}
	if result.Error == "" {
		t.Error("failed result should carry the error message")
	}

	post := store.posts["p1"]
	if post.PublishStatus != models.PublishFailed {
		t.Errorf("got publish status %s, want failed", post.PublishStatus)
	}
	if post.PublishError == "" {
		t.Error("publish error not persisted")
	}
	if len(store.logsFor("p1")) != 1 {
		t.Errorf("expected exactly one log entry, got %d", len(store.logsFor("p1")))
	}
}

func TestPublishSingleUnsupportedPlatform(t *testing.T) {
	at := time.Now().UTC().Add(-time.Hour)
	store := newFakeStore(approvedDraft("p1", models.PlatformTikTok, at))
	svc := newPublishFixture(t, store)

	result, err := svc.PublishSingle(context.Background(), "p1", false)
	if err != nil {
		t.Fatalf("unsupported platform must become a failed result: %v", err)
	}
	if result.Success {
		t.Fatal("expected failed result for unregistered platform")
	}
	if store.posts["p1"].PublishStatus != models.PublishFailed {
		t.Errorf("got publish status %s, want failed", store.posts["p1"].PublishStatus)
	}
}

func TestPublishSingleDryRun(t *testing.T) {
	at := time.Now().UTC().Add(-time.Hour)
	store := newFakeStore(approvedDraft("p1", models.PlatformTwitter, at))
	pub := &scriptedPublisher{platform: models.PlatformTwitter, failIDs: map[string]bool{"p1": true}}
	svc := newPublishFixture(t, store, pub)

	result, err := svc.PublishSingle(context.Background(), "p1", true)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !result.Success {
		t.Fatal("dry run should always succeed")
	}
	if len(pub.calls) != 0 {
		t.Error("dry run must not hit the real publisher")
	}
}

func TestPublishDueBatchIsolation(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		approvedDraft("p1", models.PlatformTwitter, now.Add(-3*time.Hour)),
		approvedDraft("p2", models.PlatformTwitter, now.Add(-2*time.Hour)),
		approvedDraft("p3", models.PlatformTwitter, now.Add(-1*time.Hour)),
	)
	pub := &scriptedPublisher{platform: models.PlatformTwitter, failIDs: map[string]bool{"p2": true}}
	svc := newPublishFixture(t, store, pub)

	results, err := svc.PublishDue(context.Background(), false, now)
	if err != nil {
		t.Fatalf("PublishDue failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Results come back in scheduled order
	for i, wantID := range []string{"p1", "p2", "p3"} {
		if results[i].PostID != wantID {
			t.Errorf("result %d is %s, want %s", i, results[i].PostID, wantID)
		}
	}

	// The middle failure must not block the rest
	byID := make(map[string]*publisher.PublishResult)
	for _, r := range results {
		byID[r.PostID] = r
	}
	if !byID["p1"].Success || !byID["p3"].Success {
		t.Error("p1 and p3 should have succeeded")
	}
	if byID["p2"].Success {
		t.Error("p2 should have failed")
	}

	if store.posts["p2"].PublishStatus != models.PublishFailed {
		t.Errorf("p2 status %s, want failed", store.posts["p2"].PublishStatus)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		if n := len(store.logsFor(id)); n != 1 {
			t.Errorf("post %s: expected exactly one log entry, got %d", id, n)
		}
	}
}

func TestPublishDueSelectsOnlyDueApprovedPending(t *testing.T) {
	now := time.Now().UTC()

	future := approvedDraft("future", models.PlatformTwitter, now.Add(time.Hour))
	pending := scheduledDraft("pending", models.PlatformTwitter, models.StreamProjectMarketing, now.Add(-time.Hour))
	rejected := scheduledDraft("rejected", models.PlatformTwitter, models.StreamProjectMarketing, now.Add(-time.Hour))
	rejected.ApprovalStatus = models.ApprovalRejected
	already := approvedDraft("already", models.PlatformTwitter, now.Add(-time.Hour))
	already.PublishStatus = models.PublishPublished
	due := approvedDraft("due", models.PlatformTwitter, now.Add(-time.Hour))

	store := newFakeStore(future, pending, rejected, already, due)
	pub := &scriptedPublisher{platform: models.PlatformTwitter}
	svc := newPublishFixture(t, store, pub)

	results, err := svc.PublishDue(context.Background(), false, now)
	if err != nil {
		t.Fatalf("PublishDue failed: %v", err)
	}
	if len(results) != 1 || results[0].PostID != "due" {
		t.Fatalf("expected only the due post to be attempted, got %d results", len(results))
	}
	if len(pub.calls) != 1 || pub.calls[0] != "due" {
		t.Errorf("publisher saw %v, want [due]", pub.calls)
	}
}

func TestPublishDueEmptyQueue(t *testing.T) {
	svc := newPublishFixture(t, newFakeStore())

	results, err := svc.PublishDue(context.Background(), false, time.Now().UTC())
	if err != nil {
		t.Fatalf("PublishDue failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestPublishDueStoreErrorAborts(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		approvedDraft("p1", models.PlatformTwitter, now.Add(-2*time.Hour)),
		approvedDraft("p2", models.PlatformTwitter, now.Add(-1*time.Hour)),
	)
	store.publishStatusErr = errStoreBroken
	pub := &scriptedPublisher{platform: models.PlatformTwitter}
	svc := newPublishFixture(t, store, pub)

	_, err := svc.PublishDue(context.Background(), false, now)
	if !errors.Is(err, errStoreBroken) {
		t.Errorf("store failures must abort the batch, got %v", err)
	}
}
