package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/config"
)

// Server exposes the measurement history and statistics over HTTP.
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	hub        *Hub
	logger     *zap.Logger
}

// NewServer creates the API server with the given configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))
	router.Use(CORS())

	handler := NewHandler(cfg)
	hub := NewHub(logger)

	SetupRoutes(router, handler, hub)

	return &Server{
		cfg:     cfg,
		router:  router,
		handler: handler,
		hub:     hub,
		logger:  logger,
	}
}

// Start starts the API server in a blocking manner.
func (s *Server) Start(address string) error {
	s.httpServer = &http.Server{
		Addr:         address,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", zap.String("address", address))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the hub and the API server in goroutines.
func (s *Server) StartAsync(address string) {
	go s.hub.Run()

	go func() {
		if err := s.Start(address); err != nil {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()
}

// Shutdown gracefully shuts down the server with a timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.hub != nil {
		s.hub.Stop()
	}

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Router returns the underlying Gin router for testing or extension.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the API handler for wiring in the collector.
func (s *Server) Handler() *Handler {
	return s.handler
}

// Hub returns the WebSocket hub for wiring in the collector.
func (s *Server) Hub() *Hub {
	return s.hub
}
