package domain

import (
	"context"
	"time"
)

type CompanyRepository interface {
	Create(ctx context.Context, c Company) error
	FindByIDs(ctx context.Context, ids ...CompanyID) (map[CompanyID]Company, error)
	ListByScore(ctx context.Context, limit int) ([]Company, error)
	ListAll(ctx context.Context) ([]Company, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// ScoreUpdate carries the optimistic guard for one side of a vote: the commit
// only takes effect if the stored score still equals OldScore.
type ScoreUpdate struct {
	CompanyID CompanyID
	OldScore  int
	NewScore  int
}

type VoteRepository interface {
	// RecordResult persists the vote and both score updates as a single
	// all-or-nothing transaction. A guard miss returns ErrConflict.
	RecordResult(ctx context.Context, vote Vote, winner, loser ScoreUpdate) error
	CountByIdentitySince(ctx context.Context, identityKey string, since time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteAll(ctx context.Context) error
}

type Counter interface {
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

type Queue interface {
	PublishVote(ctx context.Context, vote Vote) error
	ConsumeVotes(ctx context.Context, handler func(context.Context, Vote) error) error
}

type RateLimiter interface {
	Check(ctx context.Context, identityKey string, now time.Time) error
}

type Clock interface {
	Now() time.Time
}

// VoteRequest is a vote as seen by the coordinator, after the HTTP layer has
// resolved the caller's identity.
type VoteRequest struct {
	WinnerID    CompanyID
	LoserID     CompanyID
	IdentityKey string
	UserAgent   string
}

type ArenaService interface {
	Vote(ctx context.Context, req VoteRequest) (VoteResult, error)
	Battle(ctx context.Context) ([]Company, error)
	Leaderboard(ctx context.Context) ([]Company, error)
	Stats(ctx context.Context) (Stats, error)
}
