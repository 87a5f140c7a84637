package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/preston-bernstein/cricket-live-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-live-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	CORSOrigins []string
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

// NewRouter registers HTTP routes on a chi mux.
func NewRouter(handler *handlers.Handler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(opts.Logger, opts.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodDelete, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
	}).Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/live", func(r chi.Router) {
		r.Get("/", handler.Live)
		r.Post("/refresh", handler.Refresh)
		r.Get("/snapshots", handler.Snapshots)
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/", handler.Matches)
		r.Get("/{id}", handler.MatchByID)
		r.Get("/{id}/commentary", handler.Commentary)
		r.Post("/{id}/commentary", handler.OpenCommentary)
		r.Delete("/{id}/commentary", handler.CloseCommentary)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", handler.Blogs)
		r.Get("/{id}", handler.Blog)
		r.Get("/{id}/related", handler.RelatedBlogs)
		r.Post("/{id}/like", handler.LikeBlog)
	})

	return r
}
