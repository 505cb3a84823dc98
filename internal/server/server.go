// Package server exposes the MLOps services over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sixjars/jarflow/internal/classify"
	"github.com/sixjars/jarflow/internal/coach"
	"github.com/sixjars/jarflow/internal/config"
	"github.com/sixjars/jarflow/internal/knowledge"
	"github.com/sixjars/jarflow/internal/predict"
	"github.com/sixjars/jarflow/internal/service"
	"github.com/sixjars/jarflow/internal/training"
)

// Deps bundles the services and collaborators the server routes to.
// Coach, predictor, trainer, and knowledge may be nil when their
// collaborators are not configured; their routes then answer 503.
type Deps struct {
	Engine    *classify.Engine
	Feedback  service.FeedbackStore
	Coach     *coach.Service
	Predictor *predict.Service
	Trainer   *training.Service
	Knowledge *knowledge.Client

	// Health probes. Nil entries are reported as "disabled".
	DB    service.Pinger
	Redis service.Pinger

	// Endpoints is echoed by the detailed health check.
	Endpoints config.EndpointsConfig
}

// Server is the HTTP API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	cfg        config.ServerConfig
}

// New builds the router and server.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", apiKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		cfg:  cfg,
		deps: deps,
	}
	s.registerRoutes(router)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/", s.root)
	router.GET("/health", s.health)
	router.GET("/health/detailed", s.healthDetailed)
	router.GET("/metrics", gin.WrapH(metricsHandler()))

	api := router.Group("/api/v1", apiKeyAuth(s.cfg.APIKeys, s.cfg.Development))

	classification := api.Group("/classification")
	{
		classification.POST("/classify", s.classifyTransaction)
		classification.POST("/classify/batch", s.classifyBatch)
		classification.POST("/feedback", s.submitFeedback)
		classification.POST("/manual-classify", s.manualClassify)
	}

	aiCoach := api.Group("/ai-coach")
	{
		aiCoach.POST("/advice", s.coachingAdvice)
		aiCoach.POST("/chat", s.coachingAdvice)
		aiCoach.GET("/sessions/:id", s.coachingSession)
		aiCoach.POST("/proactive-alert", s.proactiveAlert)
		aiCoach.GET("/knowledge-base/search", s.searchKnowledge)
		aiCoach.POST("/knowledge-base/add", s.addKnowledge)
	}

	prediction := api.Group("/prediction")
	{
		prediction.POST("/spending", s.predictSpending)
	}

	fineTuning := api.Group("/fine-tuning")
	{
		fineTuning.POST("/retrain", s.retrain)
		fineTuning.GET("/jobs/:id", s.trainingJob)
		fineTuning.GET("/performance/:version", s.modelPerformance)
	}
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	slog.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "6-Jar Financial App - MLOps API",
		"version": "1.0.0",
		"health":  "/health",
	})
}
