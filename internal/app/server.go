// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"blog_backend/internal/auth"
	"blog_backend/internal/config"
	"blog_backend/internal/jobs"
	"blog_backend/internal/middleware"
	"blog_backend/internal/platform/metrics"
	"blog_backend/internal/session"
	"blog_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	rateLimiter  *middleware.RateLimiter
	userStatsJob *jobs.UserStatsJob
}

// NewServer wires middleware and routes onto a new gin engine.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	roles middleware.RoleResolver,
	sessions *session.Manager,
	rateLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
	userStatsJob *jobs.UserStatsJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	// The login rate limiter keys on ClientIP, so forwarded headers count only from known proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// --- Global Middleware ---
	router.Use(gin.Recovery())
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Metrics(m))

	corsConfig := cors.DefaultConfig()
	if allowsAnyOrigin(cfg.CORSAllowedOrigins) {
		// A wildcard origin never carries credentials.
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.LoadSession(sessions, middleware.NewSessionCookie(cfg), logger.Named("Session")))

	// --- Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Blog API is healthy!"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	authHandler.RegisterRoutes(router, rateLimiter.Middleware())

	authzLogger := logger.Named("Authz")
	v1 := router.Group("/api/v1", middleware.RequireSession(authzLogger))
	authHandler.RegisterUserRoutes(v1, middleware.RequireRole(roles, authzLogger, user.RoleKeyUser, user.RoleKeyAdmin))
	userHandler.RegisterAdminRoutes(v1, middleware.RequireRole(roles, authzLogger, user.RoleKeyAdmin))

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		cfg:          cfg,
		logger:       logger,
		rateLimiter:  rateLimiter,
		userStatsJob: userStatsJob,
	}, nil
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Router exposes the engine for in-process tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.userStatsJob != nil {
		if err := s.userStatsJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start user stats job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.userStatsJob != nil {
		s.userStatsJob.Stop()
	}
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
