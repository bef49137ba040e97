// Package server assembles the HTTP surface of the gateway: routes,
// middleware chain, metrics endpoint, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/proxy/handlers"
	"mercator-hq/ganymede/pkg/proxy/middleware"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// Server is the gateway HTTP server.
type Server struct {
	config  config.ServerConfig
	service handlers.ChatService
	usage   handlers.UsageReader
	metrics *metrics.Collector

	httpServer   *http.Server
	shutdownOnce sync.Once

	mu        sync.RWMutex
	isRunning bool
}

// New creates the server. usage and collector may be nil when the
// corresponding features are disabled.
func New(cfg config.ServerConfig, service handlers.ChatService, usage handlers.UsageReader, collector *metrics.Collector) *Server {
	return &Server{
		config:  cfg,
		service: service,
		usage:   usage,
		metrics: collector,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// a termination signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests and stops the server. Streams still
// open when the shutdown timeout expires are cut off.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Handler builds the routed and middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	h := handlers.New(s.service, s.usage)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /llm/chat", h.Chat)
	mux.HandleFunc("POST /llm/chat/stream", h.ChatStream)
	mux.HandleFunc("GET /llm/system-load", h.SystemLoad)
	mux.HandleFunc("GET /llm/system-capacity", h.SystemCapacity)
	mux.HandleFunc("GET /llm/model-load/{model}", h.ModelLoad)
	mux.HandleFunc("GET /llm/key-load/{model}/{key}", h.KeyLoad)
	mux.HandleFunc("GET /llm/usage/recent", h.RecentUsage)
	mux.HandleFunc("GET /llm/health", h.Health)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.CORS(s.config.CORS)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
