package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/githubixx/vdrremote-go/internal/infrastructure/config"
)

// Server represents the HTTP server
type Server struct {
	config *config.ServerConfig
	logger *slog.Logger
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.ServerConfig, logger *slog.Logger, mux http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Addr returns the listen address
func (s *Server) Addr() string { return s.server.Addr }

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// SetupRoutes configures all HTTP routes using Go 1.22+ routing
func SetupRoutes(handler *Handler, metrics *Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Apply middleware chain
	chain := func(h http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
		handler := http.Handler(h)
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}

	// Common middleware for all routes
	common := []func(http.Handler) http.Handler{
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		SecurityHeadersMiddleware(),
		CompressionMiddleware(),
	}
	if metrics != nil {
		common = append([]func(http.Handler) http.Handler{metrics.Middleware()}, common...)
	}

	mux.Handle("GET /healthz", chain(handler.Health, RecoveryMiddleware(logger)))
	if metrics != nil {
		mux.Handle("GET /metrics", RecoveryMiddleware(logger)(metrics.Handler()))
	}

	mux.Handle("GET /api/status", chain(handler.Status, common...))
	mux.Handle("GET /api/channel", chain(handler.CurrentChannel, common...))
	mux.Handle("GET /api/channels", chain(handler.Channels, common...))
	mux.Handle("GET /api/disk", chain(handler.DiskStat, common...))
	mux.Handle("GET /api/timers", chain(handler.TimerList, common...))
	mux.Handle("GET /api/timers/next", chain(handler.NextTimer, common...))
	mux.Handle("GET /api/recording", chain(handler.Recording, common...))
	mux.Handle("GET /api/now", chain(handler.NowPlaying, common...))
	mux.Handle("GET /api/epg/{channel}", chain(handler.EPGList, common...))
	mux.Handle("GET /api/guide", chain(handler.Guide, common...))

	// Remote control
	mux.Handle("POST /api/channel/up", chain(handler.ChannelUp, common...))
	mux.Handle("POST /api/channel/down", chain(handler.ChannelDown, common...))

	return mux
}
