// Package arena implements the voting rules of the company leaderboard:
// rating updates, anti-abuse checks, pair selection and read projections.
package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/ids"
	"github.com/faangarena/arena/internal/platform/metrics"
)

var (
	ErrInvalidVote        = errors.New("invalid vote")
	ErrUnknownCompany     = errors.New("unknown company")
	ErrInsufficientRoster = errors.New("not enough companies")
)

// Config carries the knobs that varied across iterations of the arena; they
// are configuration, not constants.
type Config struct {
	KFactor          int
	LeaderboardLimit int
	VoteTTL          time.Duration
}

func (c Config) withDefaults() Config {
	if c.KFactor <= 0 {
		c.KFactor = 32
	}
	if c.LeaderboardLimit <= 0 {
		c.LeaderboardLimit = 200
	}
	if c.VoteTTL <= 0 {
		c.VoteTTL = 90 * 24 * time.Hour
	}
	return c
}

// Service coordinates votes and delegates persistence to the repositories.
// The rate-limit check and the commit are deliberately not serialized against
// each other: two concurrent votes from one identity can both pass the check
// before either commits. The limit is a soft bound, not a hard guarantee.
type Service struct {
	companies domain.CompanyRepository
	votes     domain.VoteRepository
	counter   domain.Counter
	queue     domain.Queue
	limiter   domain.RateLimiter
	clock     domain.Clock
	ids       *ids.Generator
	cfg       Config
}

func NewService(
	companies domain.CompanyRepository,
	votes domain.VoteRepository,
	counter domain.Counter,
	queue domain.Queue,
	limiter domain.RateLimiter,
	clock domain.Clock,
	idsGen *ids.Generator,
	cfg Config,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{
		companies: companies,
		votes:     votes,
		counter:   counter,
		queue:     queue,
		limiter:   limiter,
		clock:     clock,
		ids:       idsGen,
		cfg:       cfg.withDefaults(),
	}
}

// Vote runs the full transaction: validate, rate-check, fetch, compute,
// commit atomically, then pick the caller's next opponent. On any failure the
// vote leaves no partial effect; ErrConflict means the commit lost a race and
// the whole vote is safe to retry.
func (s *Service) Vote(ctx context.Context, req domain.VoteRequest) (domain.VoteResult, error) {
	if req.WinnerID == "" || req.LoserID == "" {
		return domain.VoteResult{}, fmt.Errorf("%w: missing winnerId or loserId", ErrInvalidVote)
	}
	if req.WinnerID == req.LoserID {
		return domain.VoteResult{}, fmt.Errorf("%w: winner and loser must differ", ErrInvalidVote)
	}

	now := s.clock.Now()

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, req.IdentityKey, now); err != nil {
			return domain.VoteResult{}, err
		}
	}

	found, err := s.companies.FindByIDs(ctx, req.WinnerID, req.LoserID)
	if err != nil {
		return domain.VoteResult{}, err
	}
	winner, okWinner := found[req.WinnerID]
	loser, okLoser := found[req.LoserID]
	if !okWinner || !okLoser {
		return domain.VoteResult{}, fmt.Errorf("%w: %s vs %s", ErrUnknownCompany, req.WinnerID, req.LoserID)
	}

	winnerScore := winner.Score
	if winnerScore == 0 {
		winnerScore = domain.DefaultScore
	}
	loserScore := loser.Score
	if loserScore == 0 {
		loserScore = domain.DefaultScore
	}

	newWinner, newLoser, delta := ComputeElo(winnerScore, loserScore, s.cfg.KFactor)

	vote := domain.Vote{
		ID:          domain.VoteID(s.ids.New()),
		IdentityKey: req.IdentityKey,
		WinnerID:    req.WinnerID,
		LoserID:     req.LoserID,
		UserAgent:   req.UserAgent,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.VoteTTL),
	}

	// Guards use the stored scores, not the defaulted ones, so a company
	// written concurrently since the fetch fails the commit.
	err = s.votes.RecordResult(ctx, vote,
		domain.ScoreUpdate{CompanyID: winner.ID, OldScore: winner.Score, NewScore: newWinner},
		domain.ScoreUpdate{CompanyID: loser.ID, OldScore: loser.Score, NewScore: newLoser},
	)
	if err != nil {
		return domain.VoteResult{}, err
	}

	if s.queue != nil {
		// Counter maintenance is asynchronous and best-effort; a queue
		// outage must not fail a committed vote.
		if err := s.queue.PublishVote(ctx, vote); err != nil {
			metrics.IncVoteEventDropped()
		}
	}

	result := domain.VoteResult{
		Delta:       delta,
		WinnerScore: newWinner,
		LoserScore:  newLoser,
	}

	// A missing next opponent is not a failure of the vote itself.
	if roster, rosterErr := s.companies.ListAll(ctx); rosterErr == nil {
		result.NextOpponent = PickOpponent(roster, req.WinnerID, req.LoserID)
	}

	return result, nil
}

// Battle returns two distinct random companies for the client to compare.
func (s *Service) Battle(ctx context.Context) ([]domain.Company, error) {
	roster, err := s.companies.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	a, b, err := PickTwo(roster)
	if err != nil {
		return nil, err
	}
	return []domain.Company{a, b}, nil
}

// Leaderboard lists companies by score descending, capped at the configured
// page size. The score column doubles as the leaderboard sort value, so the
// listing always reflects the latest committed votes.
func (s *Service) Leaderboard(ctx context.Context) ([]domain.Company, error) {
	return s.companies.ListByScore(ctx, s.cfg.LeaderboardLimit)
}

// Stats prefers the counter maintained by the worker over a table count; the
// counter lags commits slightly but avoids scanning votes on every request.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	companies, err := s.companies.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}

	if s.counter != nil {
		if total, counterErr := s.counter.Get(ctx, CounterKeyTotalVotes()); counterErr == nil && total > 0 {
			return domain.Stats{TotalVotes: total, TotalCompanies: companies}, nil
		}
	}

	votes, err := s.votes.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{TotalVotes: votes, TotalCompanies: companies}, nil
}

var _ domain.ArenaService = (*Service)(nil)
