package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pwned/internal/config"
	"pwned/internal/handlers"
	"pwned/internal/middleware"
)

// HTTPServer wraps base HTTP server setup.
type HTTPServer struct {
	Name   string
	Config config.ServiceConfig
	Router *chi.Mux
	Logger zerolog.Logger
}

// NewHTTPServer configures router with baseline middleware, health and readiness endpoints.
func NewHTTPServer(name string, cfg config.ServiceConfig, logger zerolog.Logger, ready ...handlers.Check) *HTTPServer {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))
	router.Use(middleware.SecurityHeaders(cfg.Security.EnableHSTS))
	router.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))
	router.Use(middleware.RequestLogger(logger))

	router.Get("/healthz", handlers.HealthHandler(name))
	router.Get("/ready", handlers.ReadyHandler(name, ready...))

	return &HTTPServer{
		Name:   name,
		Config: cfg,
		Router: router,
		Logger: logger,
	}
}

// Start boots HTTP and metrics listeners and blocks until ctx ends or a
// termination signal arrives.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Config.HTTP.Addr,
		Handler:      s.Router,
		ReadTimeout:  s.Config.HTTP.ReadTimeout,
		WriteTimeout: s.Config.HTTP.WriteTimeout,
		IdleTimeout:  s.Config.HTTP.IdleTimeout,
	}

	metricsSrv := &http.Server{
		Addr:              s.Config.Metrics.Addr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.Config.Metrics.Addr != "" {
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info().Str("addr", s.Config.HTTP.Addr).Str("metrics_addr", s.Config.Metrics.Addr).Msg("http server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.Logger.Info().Msg("http server stopped")
	return nil
}
