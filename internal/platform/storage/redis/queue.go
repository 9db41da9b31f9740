// Package redis implements the vote-event queue and counters on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faangarena/arena/internal/domain"
)

// Queue carries accepted votes to the worker over a Redis list. Votes are
// already committed to Postgres when they reach the queue; the list only
// feeds counter maintenance.
type Queue struct {
	client *redis.Client
	key    string
}

func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{
		client: client,
		key:    key,
	}
}

func (q *Queue) PublishVote(ctx context.Context, vote domain.Vote) error {
	payload, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("redis queue: marshal vote: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis queue: enqueue vote: %w", err)
	}
	return nil
}

func (q *Queue) ConsumeVotes(ctx context.Context, handler func(context.Context, domain.Vote) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// BRPOP blocks with a short timeout so the context stays respected.
		res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("redis queue: consume vote: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var vote domain.Vote
		if err := json.Unmarshal([]byte(res[1]), &vote); err != nil {
			return fmt.Errorf("redis queue: invalid payload: %w", err)
		}

		if err := handler(ctx, vote); err != nil {
			return err
		}
	}
}

var _ domain.Queue = (*Queue)(nil)
