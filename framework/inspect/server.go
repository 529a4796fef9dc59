// Package inspect serves read-only metadata about a container over HTTP.
// Handlers describe modules, tags and dependency trees; they never hand out
// instances and never trigger resolution.
package inspect

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/logging"
	"github.com/km-arc/go-simple-di/framework/routing"
)

// Server exposes a container's registry over HTTP.
type Server struct {
	c      *container.Container
	logger *slog.Logger
	router *routing.Router

	mu    sync.Mutex
	stats map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Server over c and starts counting resolutions made from now
// on.
func New(c *container.Container, opts ...Option) *Server {
	s := &Server{
		c:      c,
		logger: logging.Discard(),
		stats:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	c.AfterResolving(s.record)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *routing.Router {
	r := routing.New(s.logger)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		newResponse(w).NotFound("Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		newResponse(w).Error(http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/healthz", s.health)
	r.Get("/check", s.check)
	r.Prefix("/modules", func(m *routing.Router) {
		m.Get("/", s.listModules)
		m.Get("/{name}", s.showModule)
		m.Get("/{name}/graph", s.moduleGraph)
	})
	r.Get("/tags/{tag}", s.tagged)
	return r
}

func (s *Server) record(name string, _ any) {
	s.mu.Lock()
	s.stats[name]++
	s.mu.Unlock()
}

func (s *Server) resolutions(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[name]
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspect server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("inspect server stopped")
	return nil
}
