package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"

	"pwned/client"
	"pwned/internal/app"
	"pwned/internal/config"
	"pwned/internal/hashcheck"
	"pwned/internal/middleware"
	"pwned/internal/observability"
	rediscfg "pwned/internal/platform/redis"
	"pwned/internal/pwned"
	"pwned/internal/web"
)

func main() {
	cfg, err := config.LoadService("SERVER_")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := observability.NewLogger("pwned-server", cfg.LogLevel, cfg.Environment == "dev")

	ctx := context.Background()
	rdb := rediscfg.New(cfg.Redis)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	server := app.NewHTTPServer("pwned-server", cfg, logger, rediscfg.Ping(rdb))

	upstream, err := pwned.NewClient(cfg.Pwned, rediscfg.NewRangeCache(rdb, cfg.Pwned.CacheTTL), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("range client setup failed")
	}
	checks := hashcheck.NewService(upstream, logger)
	page, err := web.NewPage(checks, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("page templates failed")
	}

	server.Router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimiter(rdb, cfg.RateLimit.RequestsPerMinute, logger))
		hashcheck.RegisterRoutes(r, checks, logger)
	})
	server.Router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter(rdb, cfg.RateLimit.RequestsPerMinute, logger))
		page.Register(r)
	})
	server.Router.Handle("/static/*", client.StaticHandler())

	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("pwned-server terminated")
	}
}
