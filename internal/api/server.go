// Package api serves the rendered club page and a small JSON API used while
// editing the club data locally.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readingroom/bookclub/internal/media/images"
	"github.com/readingroom/bookclub/internal/ratelimit"
	"github.com/readingroom/bookclub/internal/search"
)

// Options configures the server.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	Version        string
	// RequestsPerSecond per client IP; zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	preview *Preview
	index   *search.Index
	covers  *images.Storage
	router  *chi.Mux
	api     huma.API
	limiter *ratelimit.KeyedLimiter
	logger  *slog.Logger
}

// NewServer creates the preview server with all routes configured. index and
// covers may be nil; their routes then report the component as missing.
func NewServer(preview *Preview, index *search.Index, covers *images.Storage, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	router := chi.NewRouter()
	s := &Server{
		preview: preview,
		index:   index,
		covers:  covers,
		router:  router,
		logger:  logger,
	}
	s.setupMiddleware(opts)

	config := huma.DefaultConfig("Book Club Preview API", opts.Version)
	s.api = humachi.New(router, config)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerSearchRoutes()
	s.registerPopupRoutes()
	s.registerWebRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Limiter returns the per-client limiter, nil when limiting is off.
func (s *Server) Limiter() *ratelimit.KeyedLimiter {
	return s.limiter
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if opts.RequestsPerSecond > 0 {
		s.limiter = ratelimit.New(opts.RequestsPerSecond, opts.Burst)
		s.router.Use(rateLimit(s.limiter, s.logger))
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}
