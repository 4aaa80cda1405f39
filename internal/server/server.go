package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ternarybob/docere/internal/app"
)

// Answer generation can take most of the LLM timeout budget, so the write
// timeout has to cover it with headroom.
const (
	readTimeout = 15 * time.Second
	idleTimeout = 90 * time.Second
)

// Server wraps the HTTP listener around the wired application.
type Server struct {
	app  *app.App
	http *http.Server
	addr string
}

// New builds the server with routes and middleware attached.
func New(application *app.App) *Server {
	s := &Server{
		app: application,
		addr: net.JoinHostPort(
			application.Config.Server.Host,
			fmt.Sprintf("%d", application.Config.Server.Port)),
	}

	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      s.withMiddleware(s.setupRoutes()),
		ReadTimeout:  readTimeout,
		WriteTimeout: application.Config.LLMTimeout() + 15*time.Second,
		IdleTimeout:  idleTimeout,
	}

	return s
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.app.Logger.Info().
		Str("address", s.addr).
		Msg("HTTP server listening")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline. Async
// indexing pipelines keep running; only the listener stops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Draining HTTP server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
