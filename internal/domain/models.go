package domain

import (
	"time"
)

type (
	CompanyID string
	VoteID    string
)

// DefaultScore is assigned to newly seeded companies and assumed when a
// stored score is missing.
const DefaultScore = 500

// MinScore is the floor below which no rating update may push a company.
const MinScore = 100

type Company struct {
	ID        CompanyID `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Logo      string    `gorm:"column:logo;type:text" json:"logo"`
	Score     int       `gorm:"column:score;not null;default:500;index:idx_companies_score" json:"score"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

type Vote struct {
	ID          VoteID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	IdentityKey string    `gorm:"column:identity_key;type:text;not null;index:idx_votes_identity_created,priority:1" json:"-"`
	WinnerID    CompanyID `gorm:"column:winner_id;type:text;not null;index:idx_votes_winner" json:"winnerId"`
	LoserID     CompanyID `gorm:"column:loser_id;type:text;not null" json:"loserId"`
	UserAgent   string    `gorm:"column:user_agent;type:text" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at;index:idx_votes_identity_created,priority:2" json:"createdAt"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index:idx_votes_expires" json:"-"`
}

// VoteResult is what the coordinator reports back after an accepted vote.
type VoteResult struct {
	Delta        int
	WinnerScore  int
	LoserScore   int
	NextOpponent *Company
}

// Stats aggregates the public counters exposed by the API.
type Stats struct {
	TotalVotes     int64 `json:"totalVotes"`
	TotalCompanies int64 `json:"totalCompanies"`
}

func (Company) TableName() string { return "companies" }

func (Vote) TableName() string { return "votes" }
