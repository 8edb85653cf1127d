package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_search/internal/adapters/http_server"
	"hotel_search/internal/adapters/memcache"
	"hotel_search/internal/adapters/observability"
	redisad "hotel_search/internal/adapters/redis"
	"hotel_search/internal/adapters/upstream"
	"hotel_search/internal/app"
	"hotel_search/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// deps
	client, err := upstream.New(cfg.UpstreamBase, cfg.UpstreamKey, cfg.UpstreamRPS, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}
	mem := memcache.New(memcache.WithCapacity(cfg.CacheCapacity), memcache.WithTTL(cfg.CacheTTL))

	opts := []app.QueryOption{app.WithFetchTimeout(cfg.UpstreamTimeout)}
	if cfg.RedisAddr != "" {
		tier := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer tier.Close()
		if err := tier.Ping(ctx); err != nil {
			// the memory tier still works, so a dead redis is not fatal
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		// nothing older than the memory TTL is served, whoever fetched it
		opts = append(opts, app.WithSharedCache(tier, cfg.SharedCacheTTL), app.WithSharedMaxAge(cfg.CacheTTL))
	}
	q := app.NewQueryService(client, mem, opts...)

	// http
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		Production:     cfg.Production(),
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Production: cfg.Production()})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("upstream", cfg.UpstreamBase).
		Bool("shared_cache", cfg.RedisAddr != "").
		Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
