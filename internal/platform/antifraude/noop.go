package antifraude

import (
	"context"
	"time"

	"github.com/faangarena/arena/internal/domain"
)

// Noop is the disabled rate-limit strategy.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Check(ctx context.Context, identityKey string, now time.Time) error {
	return nil
}

var _ domain.RateLimiter = Noop{}
