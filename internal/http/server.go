// Package http provides the operational HTTP server: health, readiness and
// keyring status. Paste traffic is served by the embedding application.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoHTTP "github.com/allisson/pastecrypt/internal/crypto/http"
	cryptoUseCase "github.com/allisson/pastecrypt/internal/crypto/usecase"
	"github.com/allisson/pastecrypt/internal/metrics"
)

// Server represents the HTTP server
type Server struct {
	db             *sql.DB
	server         *http.Server
	router         *gin.Engine
	logger         *slog.Logger
	keyringUseCase cryptoUseCase.KeyringUseCase
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	keyringUseCase cryptoUseCase.KeyringUseCase,
	keyringHandler *cryptoHTTP.KeyringHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	s.keyringUseCase = keyringUseCase

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		v1.GET("/keyring", keyringHandler.StatusHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured, call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database answers and the keyring is loaded.
// Without a keyring no field can be encrypted or decrypted, so the service is not ready.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok", "keyring": "ok"}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness database ping failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		}
	}

	if s.keyringUseCase == nil {
		components["keyring"] = "error"
		ready = false
	} else if _, err := s.keyringUseCase.Current(); err != nil {
		components["keyring"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
