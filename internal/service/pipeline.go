package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service/agent"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
)

// ContentPipeline orchestrates the full generation flow for one week:
// research produces briefs, draft writes content, format adapts each
// post to its platform, queue assigns scheduled times. Thin
// coordination; the stages own the actual work.
type ContentPipeline struct {
	store  Store
	llm    llm.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewContentPipeline(store Store, client llm.Client, cfg *config.Config, logger *zap.Logger) *ContentPipeline {
	return &ContentPipeline{
		store:  store,
		llm:    client,
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the pipeline for the week starting at weekOf (a Monday).
// The run record is persisted up front and updated with counts on
// completion, or with the error on failure.
func (p *ContentPipeline) Run(ctx context.Context, weekOf time.Time, streams []models.ContentStream, activity string) (*models.PipelineRun, error) {
	run := models.NewPipelineRun(weekOf)
	if err := p.store.SavePipelineRun(run); err != nil {
		return nil, err
	}

	posts, err := p.generate(ctx, run, weekOf, streams, activity)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		if updateErr := p.store.UpdatePipelineRun(run); updateErr != nil {
			p.logger.Error("Failed to record pipeline failure", zap.Error(updateErr))
		}
		return run, fmt.Errorf("pipeline failed: %w", err)
	}

	run.PostsCount = len(posts)
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = models.RunStatusCompleted
	if err := p.store.UpdatePipelineRun(run); err != nil {
		return run, err
	}

	p.logger.Info("Pipeline completed",
		zap.String("run_id", run.ID),
		zap.Int("briefs", run.BriefsCount),
		zap.Int("posts", run.PostsCount))
	return run, nil
}

func (p *ContentPipeline) generate(ctx context.Context, run *models.PipelineRun, weekOf time.Time, streams []models.ContentStream, activity string) ([]*models.PostDraft, error) {
	// Stage 1: research generates briefs
	researchAgent := agent.NewResearchAgent(p.llm)
	briefs, err := researchAgent.Run(ctx, streams, activity)
	if err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}
	for _, brief := range briefs {
		if err := p.store.SaveBrief(brief, run.ID); err != nil {
			return nil, err
		}
	}
	run.BriefsCount = len(briefs)

	// Stage 2: draft writes posts, one per brief platform
	draftAgent := agent.NewDraftAgent(p.llm, p.cfg.Pipeline.BrandVoice)
	var posts []*models.PostDraft
	for _, brief := range briefs {
		draft, err := draftAgent.Run(ctx, brief)
		if err != nil {
			return nil, fmt.Errorf("draft stage (brief %s): %w", brief.ID, err)
		}
		for _, platform := range brief.TargetPlatforms() {
			post := models.NewPostDraft(brief, platform)
			post.Content = draft.Content
			post.CTAURL = draft.CTAURL
			post.Hashtags = draft.Hashtags
			posts = append(posts, post)
		}
	}
	run.DraftsCount = len(posts)

	// Stage 3: format adapts each post to platform constraints
	formatAgent := agent.NewFormatAgent(p.llm, p.cfg.Pipeline.PlatformRules)
	for _, post := range posts {
		formatted, err := formatAgent.Run(ctx, post.Content, post.Platform, post.Stream)
		if err != nil {
			return nil, fmt.Errorf("format stage (post %s): %w", post.ID, err)
		}
		if formatted.Content != "" {
			post.Content = formatted.Content
		}
		if len(formatted.Hashtags) > 0 || post.Platform == models.PlatformReddit {
			post.Hashtags = formatted.Hashtags
		}
		if formatted.Subreddit != "" {
			post.Subreddit = formatted.Subreddit
		}
	}

	// Stage 4: queue schedules across the week
	queueAgent, err := NewQueueAgent(p.cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("queue stage: %w", err)
	}
	queueAgent.Schedule(posts, weekOf)

	for _, post := range posts {
		if err := p.store.SaveDraft(post, run.ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}
