package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
)

// PublishService moves approved posts whose scheduled time has arrived
// into a published or failed terminal state via the platform publishers.
type PublishService struct {
	store    Store
	registry *publisher.Registry
	logger   *zap.Logger
}

func NewPublishService(store Store, registry *publisher.Registry, logger *zap.Logger) *PublishService {
	return &PublishService{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// PublishDue publishes every approved, still-pending post scheduled at
// or before now, in scheduled order. One post's failure never blocks
// the rest of the batch: publisher errors become failed results, are
// persisted and logged, and processing continues. Store errors abort.
func (s *PublishService) PublishDue(ctx context.Context, dryRun bool, now time.Time) ([]*publisher.PublishResult, error) {
	publishable, err := s.store.GetPublishable(now)
	if err != nil {
		return nil, err
	}

	results := make([]*publisher.PublishResult, 0, len(publishable))
	for _, post := range publishable {
		result := s.attempt(ctx, post, dryRun)
		if err := s.record(post, result); err != nil {
			return results, err
		}
		results = append(results, result)
	}

	if len(results) > 0 {
		succeeded := 0
		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}
		s.logger.Info("Publish batch completed",
			zap.Int("total", len(results)),
			zap.Int("succeeded", succeeded),
			zap.Int("failed", len(results)-succeeded))
	}

	return results, nil
}

// PublishSingle publishes one post by ID. Precondition violations are
// errors: ErrNotFound for a missing post, ErrNotApproved for a post
// whose approval status is not approved or edited. A failed publish
// attempt is not an error; it comes back as a failed result.
func (s *PublishService) PublishSingle(ctx context.Context, postID string, dryRun bool) (*publisher.PublishResult, error) {
	post, err := s.store.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, postID)
	}
	if !post.ApprovalStatus.Publishable() {
		return nil, fmt.Errorf("%w: %s (status: %s)", ErrNotApproved, postID, post.ApprovalStatus)
	}

	result := s.attempt(ctx, post, dryRun)
	if err := s.record(post, result); err != nil {
		return nil, err
	}
	return result, nil
}

// attempt runs one publish call, converting any publisher error into a
// failed result.
func (s *PublishService) attempt(ctx context.Context, post *models.PostDraft, dryRun bool) *publisher.PublishResult {
	pub, err := s.registry.Get(post.Platform, dryRun)
	if err != nil {
		return s.failure(post, err)
	}

	result, err := pub.Publish(ctx, post)
	if err != nil {
		return s.failure(post, err)
	}
	return result
}

func (s *PublishService) failure(post *models.PostDraft, err error) *publisher.PublishResult {
	s.logger.Warn("Publish attempt failed",
		zap.String("post_id", post.ID),
		zap.String("platform", string(post.Platform)),
		zap.Error(err))
	return &publisher.PublishResult{
		Success:  false,
		Platform: post.Platform,
		PostID:   post.ID,
		Error:    err.Error(),
	}
}

// record persists the outcome on the post and appends it to the publish
// log, exactly once per attempt.
func (s *PublishService) record(post *models.PostDraft, result *publisher.PublishResult) error {
	var err error
	if result.Success {
		err = s.store.UpdatePublishStatus(post.ID, models.PublishPublished, PublishMeta{
			PublishedAt:    result.PublishedAt,
			PostURL:        result.PostURL,
			PlatformPostID: result.PlatformPostID,
		})
	} else {
		err = s.store.UpdatePublishStatus(post.ID, models.PublishFailed, PublishMeta{
			PublishError: result.Error,
		})
	}
	if err != nil {
		return err
	}

	entry := models.NewPublishLogEntry(result.PostID, result.Platform)
	entry.PlatformPostID = result.PlatformPostID
	entry.PostURL = result.PostURL
	entry.Error = result.Error
	entry.PublishedAt = result.PublishedAt
	if result.Success {
		entry.Status = string(models.PublishPublished)
	} else {
		entry.Status = string(models.PublishFailed)
	}
	return s.store.SavePublishLog(entry)
}
