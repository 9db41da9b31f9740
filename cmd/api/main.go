// API entrypoint: loads configuration, wires dependencies and starts the
// HTTP server.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faangarena/arena/internal/app/arena"
	"github.com/faangarena/arena/internal/app/httpapi"
	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/antifraude"
	"github.com/faangarena/arena/internal/platform/clock"
	"github.com/faangarena/arena/internal/platform/config"
	"github.com/faangarena/arena/internal/platform/health"
	"github.com/faangarena/arena/internal/platform/ids"
	"github.com/faangarena/arena/internal/platform/logger"
	"github.com/faangarena/arena/internal/platform/migrations"
	postgresstorage "github.com/faangarena/arena/internal/platform/storage/postgres"
	redisstorage "github.com/faangarena/arena/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	// The shared connection lives for the whole process: pool reuse plus
	// readiness checks.
	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("postgres connection failed", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("sql.DB retrieval failed", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("auto migration failed", "err", err)
		}
	}

	// Redis backs the counters, the vote-event queue and the optional
	// sliding-window limiter.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connection failed", "err", err)
	}
	defer redisClient.Close()

	companyRepo := postgresstorage.NewCompanyRepository(db)
	voteRepo := postgresstorage.NewVoteRepository(db)
	counter := redisstorage.NewCounter(redisClient, cfg.CounterKeyPrefix)
	queue := redisstorage.NewQueue(redisClient, cfg.QueueKey)
	clockSystem := clock.NewSystemClock()
	idGen := ids.NewGenerator()

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	var limiter domain.RateLimiter
	switch cfg.RateLimitStrategy {
	case config.RateLimitRedis:
		limiter = antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxVotes, window, cfg.RateLimitKeyPrefix)
	case config.RateLimitOff:
		limiter = antifraude.NewNoop()
	default:
		limiter = antifraude.NewVoteHistoryLimiter(voteRepo, cfg.RateLimitMaxVotes, window)
	}

	service := arena.NewService(
		companyRepo,
		voteRepo,
		counter,
		queue,
		limiter,
		clockSystem,
		idGen,
		arena.Config{
			KFactor:          cfg.EloKFactor,
			LeaderboardLimit: cfg.LeaderboardLimit,
			VoteTTL:          time.Duration(cfg.VoteTTLDays) * 24 * time.Hour,
		},
	)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	api := httpapi.New(service, logger.L())
	api.Register(mux)
	mux.HandleFunc("/readyz", checker.ReadyHandler())
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("api listening", "addr", cfg.HTTPAddress)
	if err := http.ListenAndServe(cfg.HTTPAddress, httpapi.WithCORS(mux, cfg.AllowedOrigin)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
