package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/metrics"
)

// Pruner removes votes past their retention timestamp on a fixed interval.
// Postgres has no row TTL, so expiry is an explicit maintenance pass.
type Pruner struct {
	votes    domain.VoteRepository
	clock    domain.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewPruner(votes domain.VoteRepository, clock domain.Clock, interval time.Duration, logger *slog.Logger) *Pruner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Pruner{
		votes:    votes,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until the context is canceled. A failed pass is logged and
// retried on the next tick; expired votes only delay deletion, they are
// already invisible to rate-limit windows.
func (p *Pruner) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := p.votes.DeleteExpired(ctx, p.clock.Now())
			if err != nil {
				p.logger.Error("vote pruning failed", "err", err)
				continue
			}
			if removed > 0 {
				metrics.AddVotesPruned(removed)
				p.logger.Info("expired votes pruned", "removed", removed)
			}
		}
	}
}
