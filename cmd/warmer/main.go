package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_search/internal/adapters/observability"
	redisad "hotel_search/internal/adapters/redis"
	"hotel_search/internal/adapters/upstream"
	"hotel_search/internal/app"
	"hotel_search/internal/domain"
	"hotel_search/internal/shared"
	mysqlrepo "hotel_search/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(cfg.WarmLocations) == 0 {
		log.Warn().Msg("WARM_LOCATIONS is empty, nothing to do")
		return
	}
	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required for warming")
	}

	log.Info().
		Str("base", cfg.UpstreamBase).
		Int("workers", cfg.WarmWorkers).
		Int("locations", len(cfg.WarmLocations)).
		Msg("warmer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := upstream.New(cfg.UpstreamBase, cfg.UpstreamKey, cfg.UpstreamRPS, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	warm := app.NewWarmService(client, repo, cache, cfg.SharedCacheTTL)
	sem := semaphore.NewWeighted(int64(cfg.WarmWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, key := range cfg.WarmLocations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("warm run interrupted")
			break
		}

		wg.Add(1)
		go func(key domain.LocationKey) {
			defer wg.Done()
			defer sem.Release(1)

			loc := key.Join()
			n, err := warm.WarmLocation(ctx, key)
			if err != nil {
				failed.Add(1)
				misses, _ := repo.MissCount(ctx, loc)
				log.Warn().Str("location", loc).Int("misses", misses).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("location", loc).Int("records", n).Msg("warm ok")
		}(key)
	}

	wg.Wait()
	log.Info().
		Int("locations", len(cfg.WarmLocations)).
		Int32("failed", failed.Load()).
		Msg("warm run completed")
	if failed.Load() == int32(len(cfg.WarmLocations)) {
		log.Fatal().Msg("every location failed")
	}
}
