package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/linkedin"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/redditpub"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/twitter"
	"github.com/AreteDriver/marketing-engine/pkg/logger"
	"github.com/AreteDriver/marketing-engine/pkg/util"
)

var (
	flagWeek     string
	flagStreams  []string
	flagActivity string
	flagContent  string
	flagReason   string
	flagDryRun   bool
	flagFormat   string
)

// app bundles the pieces CLI commands need without a running HTTP server.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  service.Store
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	loc, err := service.ScheduleLocation(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone: %w", err)
	}

	return &app{cfg: cfg, logger: appLogger, store: service.NewGormStore(db, loc)}, nil
}

func (a *app) publishService() (*service.PublishService, error) {
	registry := publisher.NewRegistry(a.logger)
	if a.cfg.Publisher.Twitter.Enabled {
		if err := registry.Register(twitter.NewPublisher(a.cfg.Publisher.Twitter)); err != nil {
			return nil, err
		}
	}
	if a.cfg.Publisher.LinkedIn.Enabled {
		if err := registry.Register(linkedin.NewPublisher(a.cfg.Publisher.LinkedIn)); err != nil {
			return nil, err
		}
	}
	if a.cfg.Publisher.Reddit.Enabled {
		if err := registry.Register(redditpub.NewPublisher(a.cfg.Publisher.Reddit)); err != nil {
			return nil, err
		}
	}
	return service.NewPublishService(a.store, registry, a.logger), nil
}

// resolveWeek parses --week, defaulting to next Monday.
func resolveWeek() (time.Time, error) {
	if flagWeek == "" {
		return util.NextMonday(time.Now().UTC()), nil
	}
	week, err := time.ParseInLocation("2006-01-02", flagWeek, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week date %q, use YYYY-MM-DD", flagWeek)
	}
	return util.MondayOf(week), nil
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Generate and schedule a week of content",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		week, err := resolveWeek()
		if err != nil {
			return err
		}

		var streams []models.ContentStream
		for _, name := range flagStreams {
			stream := models.ContentStream(name)
			if !stream.Valid() {
				return fmt.Errorf("unknown stream %q", name)
			}
			streams = append(streams, stream)
		}

		pipeline := service.NewContentPipeline(a.store, llm.NewOllama(a.cfg.LLM), a.cfg, a.logger)
		run, err := pipeline.Run(context.Background(), week, streams, flagActivity)
		if err != nil {
			return err
		}

		fmt.Printf("Run %s completed: %d briefs, %d posts for week of %s\n",
			run.ID, run.BriefsCount, run.PostsCount, week.Format("2006-01-02"))
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List posts pending review",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		var week *time.Time
		if flagWeek != "" {
			w, err := resolveWeek()
			if err != nil {
				return err
			}
			week = &w
		}

		posts, err := service.GetReviewQueue(a.store, week)
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			fmt.Println("No posts pending review.")
			return nil
		}

		for _, post := range posts {
			scheduled := "unscheduled"
			if post.ScheduledTime != nil {
				scheduled = post.ScheduledTime.Format(time.RFC3339)
			}
			fmt.Printf("%s  [%s/%s]  %s\n", post.ID, post.Platform, post.Stream, scheduled)
			fmt.Printf("    %s\n", util.TruncateAtWord(post.Content, 120))
		}
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <post-id>",
	Short: "Approve a post for publishing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		post, err := service.ApprovePost(a.store, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Approved %s (%s)\n", post.ID, post.Platform)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <post-id>",
	Short: "Replace a post's content and approve it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagContent == "" {
			return fmt.Errorf("--content is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		post, err := service.EditPost(a.store, args[0], flagContent)
		if err != nil {
			return err
		}
		fmt.Printf("Edited %s (%s)\n", post.ID, post.Platform)
		return nil
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <post-id>",
	Short: "Reject a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		post, err := service.RejectPost(a.store, args[0], flagReason)
		if err != nil {
			return err
		}
		fmt.Printf("Rejected %s (%s)\n", post.ID, post.Platform)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish [post-id]",
	Short: "Publish due approved posts, or one post by ID",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		svc, err := a.publishService()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if len(args) == 1 {
			result, err := svc.PublishSingle(ctx, args[0], flagDryRun)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		}

		results, err := svc.PublishDue(ctx, flagDryRun, time.Now().UTC())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No posts due for publishing.")
			return nil
		}
		for _, result := range results {
			printResult(result)
		}
		return nil
	},
}

func printResult(result *publisher.PublishResult) {
	if result.Success {
		fmt.Printf("published  %s -> %s\n", result.PostID, result.PostURL)
		return
	}
	fmt.Printf("failed     %s: %s\n", result.PostID, result.Error)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the week's approved posts as JSON or Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		week, err := resolveWeek()
		if err != nil {
			return err
		}

		out, err := service.ExportApproved(a.store, week, flagFormat)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	pipelineCmd.Flags().StringVar(&flagWeek, "week", "", "week to generate for (YYYY-MM-DD, defaults to next Monday)")
	pipelineCmd.Flags().StringSliceVar(&flagStreams, "streams", nil, "content streams to include (defaults to all)")
	pipelineCmd.Flags().StringVar(&flagActivity, "activity", "", "recent activity summary to ground research on")

	reviewCmd.Flags().StringVar(&flagWeek, "week", "", "limit to one week (YYYY-MM-DD)")

	editCmd.Flags().StringVar(&flagContent, "content", "", "replacement content")
	rejectCmd.Flags().StringVar(&flagReason, "reason", "", "rejection reason")

	publishCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "log what would be published without posting")

	exportCmd.Flags().StringVar(&flagWeek, "week", "", "week to export (YYYY-MM-DD, defaults to next Monday)")
	exportCmd.Flags().StringVar(&flagFormat, "format", service.ExportJSON, "output format: json or markdown")
}
