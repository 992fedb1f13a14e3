// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/routes"
)

// HealthChecker is a backing service reported by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	services    *routes.Services
	redisClient *redis.Client
	checks      map[string]HealthChecker
	logger      *logrus.Logger
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance. redisClient may be nil,
// which disables rate limiting.
func NewServer(cfg *config.Config, services *routes.Services, redisClient *redis.Client, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		config:      cfg,
		services:    services,
		redisClient: redisClient,
		checks:      make(map[string]HealthChecker),
		logger:      logger,
		startedAt:   time.Now(),
	}

	s.gin = gin.New()
	// Route on the escaped path so a path value may carry an encoded slash
	s.gin.UseRawPath = true
	s.gin.UnescapePathValues = true
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// AddHealthCheck registers a backing service pinged by /health
func (s *Server) AddHealthCheck(name string, check HealthChecker) {
	s.checks[name] = check
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":         s.config.Server.Port,
		"catalog_mode": s.config.Catalog.Mode,
		"mock_store":   s.config.Mock.Store,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID first so the access log can carry it
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))

	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes mounts every route group. Rate limiting is per group so the
// mock API can exempt loopback calls made by the storefront itself.
func (s *Server) setupRoutes() {
	limiter := middleware.RateLimit(s.config, s.redisClient, s.logger)

	public := s.gin.Group("", limiter)
	public.GET("/health", s.healthCheck)
	public.GET("/ready", s.readinessCheck)

	routes.SetupRoutes(s.gin, s.services, s.config, limiter)

	if s.config.IsDevelopment() {
		public.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"events":  "/api/events",
					"graphql": "/graphql",
					"store":   "/store",
					"cart":    "/store/cart",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.logger.WithField("service", name).WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now().UTC(),
		"version":      s.config.App.Version,
		"environment":  s.config.App.Environment,
		"catalog_mode": s.config.Catalog.Mode,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}
