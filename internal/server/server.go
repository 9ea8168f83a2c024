package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AreteDriver/marketing-engine/internal/config"
	"github.com/AreteDriver/marketing-engine/internal/models"
	"github.com/AreteDriver/marketing-engine/internal/service"
	"github.com/AreteDriver/marketing-engine/internal/service/llm"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/linkedin"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/redditpub"
	"github.com/AreteDriver/marketing-engine/internal/service/publisher/twitter"
)

type Server struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	// Services
	Store          service.Store
	Pipeline       *service.ContentPipeline
	PublishService *service.PublishService
	Scheduler      *service.Scheduler
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Set gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	loc, err := service.ScheduleLocation(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone: %w", err)
	}
	store := service.NewGormStore(db, loc)

	// Register platform publishers
	registry := publisher.NewRegistry(logger)
	if err := registerPublishers(registry, cfg, logger); err != nil {
		return nil, err
	}

	publishService := service.NewPublishService(store, registry, logger)
	scheduler := service.NewScheduler(&cfg.Scheduler, logger, publishService)
	pipeline := service.NewContentPipeline(store, llm.NewOllama(cfg.LLM), cfg, logger)

	// Create router
	router := gin.New()

	// Create server
	srv := &Server{
		Config:         cfg,
		DB:             db,
		Router:         router,
		Logger:         logger,
		Store:          store,
		Pipeline:       pipeline,
		PublishService: publishService,
		Scheduler:      scheduler,
	}

	// Setup middleware and routes
	srv.setupMiddleware()
	srv.setupRoutes()

	return srv, nil
}

func registerPublishers(registry *publisher.Registry, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Publisher.Twitter.Enabled {
		if err := registry.Register(twitter.NewPublisher(cfg.Publisher.Twitter)); err != nil {
			return err
		}
	}
	if cfg.Publisher.LinkedIn.Enabled {
		if err := registry.Register(linkedin.NewPublisher(cfg.Publisher.LinkedIn)); err != nil {
			return err
		}
	}
	if cfg.Publisher.Reddit.Enabled {
		if err := registry.Register(redditpub.NewPublisher(cfg.Publisher.Reddit)); err != nil {
			return err
		}
	}

	if len(registry.Platforms()) == 0 {
		logger.Warn("No platform publishers enabled; only dry-run publishing will work")
	}
	return nil
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.Router.Use(gin.Recovery())

	// Logger middleware
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	// CORS middleware
	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API routes
	api := s.Router.Group("/api/v1")
	{
		api.GET("/review", s.handleGetReviewQueue)
		api.GET("/queue", s.handleGetQueue)
		api.GET("/summary", s.handleGetSummary)
		api.GET("/runs", s.handleGetRuns)
		api.GET("/history", s.handleGetHistory)

		posts := api.Group("/posts")
		{
			posts.POST("/:id/approve", s.handleApprovePost)
			posts.POST("/:id/edit", s.handleEditPost)
			posts.POST("/:id/reject", s.handleRejectPost)
			posts.POST("/:id/publish", s.handlePublishPost)
		}

		api.POST("/publish", s.handlePublishDue)
		api.POST("/pipeline", s.handleRunPipeline)
	}
}

// parseWeek reads an optional ?week=YYYY-MM-DD query param.
func parseWeek(c *gin.Context) (*time.Time, error) {
	raw := c.Query("week")
	if raw == "" {
		return nil, nil
	}
	week, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid week date %q, use YYYY-MM-DD", raw)
	}
	return &week, nil
}

func (s *Server) handleGetReviewQueue(c *gin.Context) {
	week, err := parseWeek(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	posts, err := service.GetReviewQueue(s.Store, week)
	if err != nil {
		s.Logger.Error("Failed to get review queue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get review queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (s *Server) handleGetQueue(c *gin.Context) {
	week, err := parseWeek(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if week == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week query parameter is required"})
		return
	}

	posts, err := s.Store.GetQueue(*week)
	if err != nil {
		s.Logger.Error("Failed to get queue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue"})
		return
	}

	queue := models.WeeklyQueue{WeekOf: *week, Posts: posts}
	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"by_platform": queue.TotalByPlatform(),
		"by_stream":   queue.TotalByStream(),
		"pending":     queue.PendingCount(),
		"approved":    queue.ApprovedCount(),
	})
}

func (s *Server) handleGetSummary(c *gin.Context) {
	week, err := parseWeek(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := service.GetApprovalSummary(s.Store, week)
	if err != nil {
		s.Logger.Error("Failed to get approval summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGetRuns(c *gin.Context) {
	runs, err := s.Store.GetPipelineRuns(10)
	if err != nil {
		s.Logger.Error("Failed to get pipeline runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetHistory(c *gin.Context) {
	entries, err := s.Store.GetPublishHistory(20)
	if err != nil {
		s.Logger.Error("Failed to get publish history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (s *Server) handleApprovePost(c *gin.Context) {
	post, err := service.ApprovePost(s.Store, c.Param("id"))
	if err != nil {
		s.respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (s *Server) handleEditPost(c *gin.Context) {
	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	post, err := service.EditPost(s.Store, c.Param("id"), body.Content)
	if err != nil {
		s.respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (s *Server) handleRejectPost(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional for rejections
	_ = c.ShouldBindJSON(&body)

	post, err := service.RejectPost(s.Store, c.Param("id"), body.Reason)
	if err != nil {
		s.respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (s *Server) handlePublishPost(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	result, err := s.PublishService.PublishSingle(c.Request.Context(), c.Param("id"), dryRun)
	if err != nil {
		s.respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) handlePublishDue(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	results, err := s.PublishService.PublishDue(c.Request.Context(), dryRun, time.Now().UTC())
	if err != nil {
		s.Logger.Error("Failed to publish due posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish due posts"})
		return
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"attempted": len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

func (s *Server) handleRunPipeline(c *gin.Context) {
	var body struct {
		Week     string   `json:"week" binding:"required"`
		Streams  []string `json:"streams"`
		Activity string   `json:"activity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week is required (YYYY-MM-DD)"})
		return
	}

	week, err := time.ParseInLocation("2006-01-02", body.Week, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid week date %q", body.Week)})
		return
	}

	var streams []models.ContentStream
	for _, name := range body.Streams {
		stream := models.ContentStream(name)
		if !stream.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown stream %q", name)})
			return
		}
		streams = append(streams, stream)
	}

	run, err := s.Pipeline.Run(c.Request.Context(), week, streams, body.Activity)
	if err != nil {
		s.Logger.Error("Pipeline run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "run": run})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run})
}

func (s *Server) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.Logger.Error("Post operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Start publish scheduler
	if err := s.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	s.Logger.Info("Starting HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop scheduler first
	s.Scheduler.Stop()

	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
