// Package server wires the HTTP routes and runs the listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"wedding-site/internal/apperrors"
	"wedding-site/internal/handler"
	"wedding-site/internal/ratelimit"
	"wedding-site/internal/response"
)

// Config configures the listener.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RateLimit       ratelimit.Config
}

// Server serves the site.
type Server struct {
	cfg     Config
	handler *handler.Handler
	limiter *ratelimit.Limiter
	log     zerolog.Logger
	router  chi.Router
}

// New builds the router.
func New(cfg Config, h *handler.Handler, log zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		handler: h,
		limiter: ratelimit.New(cfg.RateLimit, time.Minute),
		log:     log.With().Str("component", "Server").Logger(),
	}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	// RequestID first so the access log can include it.
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handler.Page)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", s.handler.Static()))

	r.Route("/api", func(r chi.Router) {
		r.With(s.limiter.Middleware).Post("/rsvp", s.handler.SubmitRSVP)
		r.Post("/form/touch", s.handler.TouchForm)
		r.Post("/theme", s.handler.SetTheme)
		r.Post("/splash-complete", s.handler.CompleteSplash)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, apperrors.ErrNotFound)
	})
	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ev := s.log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = s.log.Warn()
		}
		ev.Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Close()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	s.log.Info().Msg("Server stopped gracefully")
	return nil
}
