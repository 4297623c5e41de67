package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/metrics"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Options contains the collaborators of a [Server].
type Options struct {
	Config   shared.ServerConfig
	Locale   string // fallback locale when the request names none
	Pipeline *tasks.Pipeline
	Renderer *formatter.Renderer
	Metrics  *metrics.Manager
	Logger   *log.Logger
}

// Server serves lookups over HTTP.
type Server struct {
	cfg      shared.ServerConfig
	locale   string
	pipeline *tasks.Pipeline
	renderer *formatter.Renderer
	metrics  *metrics.Manager
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server and builds its router. Renderer, Metrics and Logger get defaults when nil.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		locale:   opts.Locale,
		pipeline: opts.Pipeline,
		renderer: opts.Renderer,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
	if s.renderer == nil {
		s.renderer = formatter.NewRenderer(nil, "")
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(Instrument(s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/players/{externalID}/stats", s.playerStats)
		r.Post("/page/stats", s.pageStats)
	})

	r.Route("/embed", func(r chi.Router) {
		r.Get("/styles.css", s.styles)
		r.Get("/{externalID}", s.embed)
	})

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "cors", s.cfg.CORSOrigins)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown failed", "err", err)
			return srv.Close()
		}
		return nil
	}
}
