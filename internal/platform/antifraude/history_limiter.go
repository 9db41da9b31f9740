// Package antifraude provides the vote rate-limit strategies: a read-only
// check over persisted vote history, a Redis sliding window, and a noop mode.
package antifraude

import (
	"context"
	"fmt"
	"time"

	"github.com/faangarena/arena/internal/domain"
)

var ErrRateLimitExceeded = fmt.Errorf("vote limit reached")

// VoteHistoryLimiter counts committed votes of the identity inside the
// trailing window. The check is read-only and reserves nothing: two
// concurrent votes can both pass before either commits, which keeps the
// limit soft.
type VoteHistoryLimiter struct {
	votes  domain.VoteRepository
	limit  int
	window time.Duration
}

func NewVoteHistoryLimiter(votes domain.VoteRepository, limit int, window time.Duration) *VoteHistoryLimiter {
	return &VoteHistoryLimiter{
		votes:  votes,
		limit:  limit,
		window: window,
	}
}

func (l *VoteHistoryLimiter) Check(ctx context.Context, identityKey string, now time.Time) error {
	if l.votes == nil || l.limit <= 0 || l.window <= 0 {
		// Invalid configuration degrades to permissive mode.
		return nil
	}

	count, err := l.votes.CountByIdentitySince(ctx, identityKey, now.Add(-l.window))
	if err != nil {
		return fmt.Errorf("antifraude: count vote history: %w", err)
	}

	if count >= int64(l.limit) {
		return ErrRateLimitExceeded
	}

	return nil
}

var _ domain.RateLimiter = (*VoteHistoryLimiter)(nil)
