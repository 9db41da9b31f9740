package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/faangarena/arena/internal/domain"
)

// VoteRepository stores immutable vote records and owns the atomic
// vote-plus-scores commit.
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	IdentityKey string    `gorm:"column:identity_key;index"`
	WinnerID    string    `gorm:"column:winner_id;index"`
	LoserID     string    `gorm:"column:loser_id"`
	UserAgent   string    `gorm:"column:user_agent"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func fromDomainVote(v domain.Vote) voteModel {
	return voteModel{
		ID:          string(v.ID),
		IdentityKey: v.IdentityKey,
		WinnerID:    string(v.WinnerID),
		LoserID:     string(v.LoserID),
		UserAgent:   v.UserAgent,
		CreatedAt:   v.CreatedAt,
		ExpiresAt:   v.ExpiresAt,
	}
}

// RecordResult commits the vote record and both score updates in one
// transaction. Each update is guarded by the score observed at fetch time; a
// guard miss means another vote committed in between, the transaction rolls
// back and ErrConflict is returned so the caller can retry the whole vote.
func (r *VoteRepository) RecordResult(ctx context.Context, vote domain.Vote, winner, loser domain.ScoreUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := fromDomainVote(vote)
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("gorm votes: insert: %w", err)
		}

		for _, update := range []domain.ScoreUpdate{winner, loser} {
			res := tx.Model(&companyModel{}).
				Where("id = ? AND score = ?", string(update.CompanyID), update.OldScore).
				Updates(map[string]any{
					"score":      update.NewScore,
					"updated_at": vote.CreatedAt,
				})
			if res.Error != nil {
				return fmt.Errorf("gorm votes: update score %s: %w", update.CompanyID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("score of %s moved: %w", update.CompanyID, domain.ErrConflict)
			}
		}

		return nil
	})
}

func (r *VoteRepository) CountByIdentitySince(ctx context.Context, identityKey string, since time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("identity_key = ? AND created_at >= ?", identityKey, since).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm votes: count by identity: %w", err)
	}
	return total, nil
}

func (r *VoteRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm votes: count: %w", err)
	}
	return total, nil
}

// DeleteExpired removes votes past their retention timestamp and reports how
// many rows went away. The worker calls this on a ticker; there is no
// database-side TTL.
func (r *VoteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&voteModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("gorm votes: delete expired: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *VoteRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM votes").Error; err != nil {
		return fmt.Errorf("gorm votes: delete all: %w", err)
	}
	return nil
}

var _ domain.VoteRepository = (*VoteRepository)(nil)
