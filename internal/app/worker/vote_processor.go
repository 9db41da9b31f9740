// Package worker holds the asynchronous side of the arena: counter
// maintenance for committed votes and retention pruning.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/faangarena/arena/internal/app/arena"
	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/metrics"
)

// VoteProcessor consumes committed votes from the queue and keeps the Redis
// counters current. The vote itself is already durable; failures here only
// stall counters, never votes.
type VoteProcessor struct {
	counter domain.Counter
}

func NewVoteProcessor(counter domain.Counter) *VoteProcessor {
	return &VoteProcessor{
		counter: counter,
	}
}

func (p *VoteProcessor) Process(ctx context.Context, vote domain.Vote) error {
	start := time.Now()

	if p.counter == nil {
		// Without a counter we still track throughput through metrics.
		metrics.IncVoteProcessed()
		metrics.ObserveProcessingDuration(time.Since(start).Seconds())
		return nil
	}

	if _, err := p.counter.Increment(ctx, arena.CounterKeyTotalVotes(), 1); err != nil {
		return fmt.Errorf("worker: increment total votes for %s: %w", vote.ID, err)
	}

	if _, err := p.counter.Increment(ctx, arena.CounterKeyCompanyWins(vote.WinnerID), 1); err != nil {
		return fmt.Errorf("worker: increment wins %s: %w", vote.WinnerID, err)
	}

	metrics.IncVoteProcessed()
	metrics.ObserveProcessingDuration(time.Since(start).Seconds())

	return nil
}
