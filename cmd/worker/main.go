// Asynchronous worker: consumes committed votes from the queue to maintain
// counters, prunes expired votes, and exposes its own metrics listener.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faangarena/arena/internal/app/worker"
	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/clock"
	"github.com/faangarena/arena/internal/platform/config"
	"github.com/faangarena/arena/internal/platform/health"
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

	// The worker shares the API's GORM connection setup, migrations and
	// models.
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

	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connection failed", "err", err)
	}
	defer redisClient.Close()

	counter := redisstorage.NewCounter(redisClient, cfg.CounterKeyPrefix)
	queue := redisstorage.NewQueue(redisClient, cfg.QueueKey)
	voteRepo := postgresstorage.NewVoteRepository(db)
	clockSystem := clock.NewSystemClock()
	checker := health.NewChecker(sqlDB, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/readyz", checker.ReadyHandler())
			logger.Info("worker metrics listening", "addr", cfg.WorkerMetricsAddress)
			if err := http.ListenAndServe(cfg.WorkerMetricsAddress, mux); err != nil {
				logger.Error("worker metrics server error", "err", err)
			}
		}()
	}

	pruner := worker.NewPruner(voteRepo, clockSystem, time.Duration(cfg.PruneIntervalSeconds)*time.Second, logger.L())
	go func() {
		if err := pruner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pruner stopped", "err", err)
		}
	}()

	processor := worker.NewVoteProcessor(counter)

	logger.Info("worker started, waiting for votes")
	err = queue.ConsumeVotes(ctx, func(ctx context.Context, vote domain.Vote) error {
		// Vote events are processed one at a time; a failed event is logged
		// and dropped, the vote itself is already committed.
		if err := processor.Process(ctx, vote); err != nil {
			logger.Error("vote event processing failed", "vote", vote.ID, "err", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finished with error", "err", err)
	}

	logger.Info("worker finished")
}
