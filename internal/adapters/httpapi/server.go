package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
)

// Server exposes the scanning engine over HTTP.
type Server struct {
	scan    *core.ThreatScanService
	compose *core.SecureComposeService
	alerts  core.AlertSink
	logger  *zap.Logger

	srv *http.Server

	// mu guards the per-session state: the active policy toggles and the
	// cached result of the most recent scan.
	mu        sync.RWMutex
	policy    core.Policy
	lastBatch *core.BatchResult
}

// NewServer creates the HTTP server bound to listenAddr. policy seeds the
// session toggles; PUT /api/settings replaces them.
func NewServer(
	scan *core.ThreatScanService,
	compose *core.SecureComposeService,
	alerts core.AlertSink,
	logger *zap.Logger,
	listenAddr string,
	policy core.Policy,
) *Server {
	s := &Server{
		scan:    scan,
		compose: compose,
		alerts:  alerts,
		logger:  logger,
		policy:  policy,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	api := router.Group("/api")
	{
		api.POST("/scan", s.handleScan)
		api.GET("/emails", s.handleListEmails)
		api.GET("/emails/:id", s.handleGetEmail)
		api.POST("/emails/:id/quarantine", s.handleQuarantine)
		api.POST("/emails/:id/restore", s.handleRestore)
		api.GET("/quarantine", s.handleListQuarantine)
		api.GET("/alerts", s.handleListAlerts)
		api.GET("/stats", s.handleStats)
		api.POST("/sandbox/analyze", s.handleSandboxAnalyze)
		api.POST("/compose", s.handleCompose)
		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handlePutSettings)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.srv = &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.logger.Info("HTTP API starting", zap.String("address", s.srv.Addr))

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
