package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration
	CORSOrigins    []string

	UpstreamBase    string
	UpstreamKey     string
	UpstreamRPS     int
	UpstreamTimeout time.Duration

	CacheCapacity int
	CacheTTL      time.Duration

	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SharedCacheTTL time.Duration

	MySQLDSN      string
	WarmLocations []domain.LocationKey
	WarmWorkers   int
}

// Production reports whether error details must be withheld from clients.
func (c Config) Production() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return false
	}
	return true
}

// Load reads the environment, after an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be read")
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		RequestTimeout: seconds("REQUEST_TIMEOUT_SECONDS", 30),
		CORSOrigins:    list("CORS_ORIGINS", ","),

		UpstreamBase:    env("UPSTREAM_BASE_URL", "http://localhost:4000"),
		UpstreamKey:     env("UPSTREAM_API_KEY", ""),
		UpstreamRPS:     atoi("UPSTREAM_RPS", 5),
		UpstreamTimeout: seconds("UPSTREAM_TIMEOUT_SECONDS", 10),

		CacheCapacity: atoi("CACHE_CAPACITY", 200),
		CacheTTL:      seconds("CACHE_TTL_SECONDS", 300),

		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		SharedCacheTTL: seconds("SHARED_CACHE_TTL_SECONDS", 900),

		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		WarmWorkers: atoi("WARM_WORKERS", 4),
	}
	for _, loc := range list("WARM_LOCATIONS", ",") {
		c.WarmLocations = append(c.WarmLocations, domain.ParseLocationKey(loc))
	}
	if c.WarmWorkers < 1 {
		c.WarmWorkers = 1
	}
	if c.UpstreamKey == "" {
		log.Warn().Msg("UPSTREAM_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func seconds(k string, def int) time.Duration {
	return time.Duration(atoi(k, def)) * time.Second
}

// list splits a separated value, dropping blanks.
func list(k, sep string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
