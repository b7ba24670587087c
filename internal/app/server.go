// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"property_listing_backend/internal/config"
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/jobs"
	"property_listing_backend/internal/middleware"
	"property_listing_backend/internal/property"
	"property_listing_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	profileBackfillJob *jobs.ProfileBackfillJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	verifier identity.Verifier,
	userHandler *user.Handler,
	propertyHandler *property.Handler,
	profileBackfillJob *jobs.ProfileBackfillJob,
) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SecurityHeaders())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitIdleTTL, logger).RateLimit())
	}
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	authMW := middleware.AuthMiddleware(verifier, logger)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "OK", Message: "Server is running"})
	})

	api := router.Group("/api")
	propertyHandler.RegisterRoutes(api, authMW)
	userHandler.RegisterRoutes(api, authMW)

	// Wrong methods on known paths fall through to NoRoute as well.
	router.NoRoute(middleware.NotFound())

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		logger:             logger,
		profileBackfillJob: profileBackfillJob,
	}, nil
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start launches the background jobs and blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	if s.profileBackfillJob != nil {
		if err := s.profileBackfillJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start profile backfill job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("port", s.cfg.ServerPort),
		zap.String("environment", s.cfg.AppEnv),
		zap.String("gin_mode", gin.Mode()),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the jobs and drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.profileBackfillJob != nil {
		s.profileBackfillJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
