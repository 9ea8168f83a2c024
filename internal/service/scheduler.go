package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AreteDriver/marketing-engine/internal/config"
)

// Scheduler periodically drains due posts through the publish service.
type Scheduler struct {
	config         *config.SchedulerConfig
	logger         *zap.Logger
	publishService *PublishService
	ticker         *time.Ticker
	stopCh         chan struct{}
}

func NewScheduler(cfg *config.SchedulerConfig, logger *zap.Logger, publishService *PublishService) *Scheduler {
	return &Scheduler{
		config:         cfg,
		logger:         logger,
		publishService: publishService,
		stopCh:         make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Publish scheduler is disabled")
		return nil
	}

	interval, err := time.ParseDuration(s.config.PublishInterval)
	if err != nil {
		s.logger.Error("Invalid publish interval", zap.String("interval", s.config.PublishInterval), zap.Error(err))
		return err
	}

	s.logger.Info("Starting publish scheduler",
		zap.String("publish_interval", s.config.PublishInterval),
		zap.Bool("dry_run", s.config.DryRun))

	s.ticker = time.NewTicker(interval)

	// Run first drain immediately
	go func() {
		s.logger.Info("Running initial publish drain")
		if err := s.runPublish(ctx); err != nil {
			s.logger.Error("Initial publish drain failed", zap.Error(err))
		}
	}()

	// Start periodic publishing
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.logger.Info("Running scheduled publish drain")
				if err := s.runPublish(ctx); err != nil {
					s.logger.Error("Scheduled publish drain failed", zap.Error(err))
				}
			case <-s.stopCh:
				s.logger.Info("Publish scheduler stopped")
				return
			case <-ctx.Done():
				s.logger.Info("Publish scheduler context cancelled")
				return
			}
		}
	}()

	return nil
}

func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
	s.logger.Info("Publish scheduler shutdown completed")
}

func (s *Scheduler) runPublish(ctx context.Context) error {
	start := time.Now()
	results, err := s.publishService.PublishDue(ctx, s.config.DryRun, time.Now().UTC())
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("Publish drain failed",
			zap.Error(err),
			zap.Duration("duration", duration))
		return err
	}

	s.logger.Info("Publish drain completed",
		zap.Int("attempted", len(results)),
		zap.Duration("duration", duration))
	return nil
}
