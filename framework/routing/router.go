package routing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/km-arc/go-simple-di/framework/logging"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-Id"

// Router wraps chi.Router with a few helpers.
type Router struct {
	mux chi.Router
}

// New creates a Router with sane defaults (request logging, Recoverer,
// RealIP). A nil logger discards request logs.
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc) { r.mux.Get(pattern, h) }

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router with a URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// NotFound sets the handler for unmatched routes.
func (r *Router) NotFound(h http.HandlerFunc) { r.mux.NotFound(h) }

// MethodNotAllowed sets the handler for known routes hit with the wrong verb.
func (r *Router) MethodNotAllowed(h http.HandlerFunc) { r.mux.MethodNotAllowed(h) }

// RequestLogger tags every request with an id (taken from X-Request-Id or
// generated), stores a logger carrying it in the request context and logs
// the outcome once the handler returns.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			log := logger.With("request_id", id)
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, req.WithContext(logging.WithLogger(req.Context(), log)))

			log.Info("request handled",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
