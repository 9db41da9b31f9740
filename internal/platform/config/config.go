// Package config centralizes the environment variables consumed by the
// binaries.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Rate limit strategies accepted by RATE_LIMIT_STRATEGY.
const (
	RateLimitHistory = "history"
	RateLimitRedis   = "redis"
	RateLimitOff     = "off"
)

// Config aggregates every parameter needed by the API, worker and seed
// binaries.
type Config struct {
	HTTPAddress string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QueueKey         string
	CounterKeyPrefix string

	RateLimitStrategy      string
	RateLimitMaxVotes      int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	EloKFactor       int
	LeaderboardLimit int
	VoteTTLDays      int

	AllowedOrigin string

	AutoMigrate bool

	WorkerMetricsAddress string
	PruneIntervalSeconds int
}

func Load() (Config, error) {
	// Defaults favor local runs; variables override them in Docker/K8s.
	cfg := Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		PostgresHost:           getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:           getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:           getEnv("POSTGRES_USER", "arena"),
		PostgresPassword:       getEnv("POSTGRES_PASSWORD", "arena"),
		PostgresDB:             getEnv("POSTGRES_DB", "arena_votes"),
		PostgresSSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		QueueKey:               getEnv("REDIS_QUEUE_KEY", "queue:votes"),
		CounterKeyPrefix:       getEnv("REDIS_COUNTER_PREFIX", "counter"),
		RateLimitStrategy:      getEnv("RATE_LIMIT_STRATEGY", RateLimitHistory),
		RateLimitMaxVotes:      getEnvAsInt("RATE_LIMIT_MAX", 300),
		RateLimitWindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW", 3600),
		RateLimitKeyPrefix:     getEnv("RATE_LIMIT_PREFIX", "ratelimit"),
		EloKFactor:             getEnvAsInt("ELO_K_FACTOR", 32),
		LeaderboardLimit:       getEnvAsInt("LEADERBOARD_LIMIT", 200),
		VoteTTLDays:            getEnvAsInt("VOTE_TTL_DAYS", 90),
		AllowedOrigin:          getEnv("CORS_ALLOWED_ORIGIN", "*"),
		AutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		WorkerMetricsAddress:   getEnv("WORKER_METRICS_ADDRESS", ":9090"),
		PruneIntervalSeconds:   getEnvAsInt("VOTE_PRUNE_INTERVAL", 3600),
	}

	switch cfg.RateLimitStrategy {
	case RateLimitHistory, RateLimitRedis, RateLimitOff:
	default:
		return Config{}, fmt.Errorf("config: RATE_LIMIT_STRATEGY invalid: %q", cfg.RateLimitStrategy)
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalid: %w", err)
	}
	cfg.RedisDB = dbInt

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	// DSN format stays compatible with GORM and migration tooling.
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
