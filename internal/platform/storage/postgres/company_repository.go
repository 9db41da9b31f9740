package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faangarena/arena/internal/domain"
)

// CompanyRepository maps the company roster and its score ordering to GORM.
// The score column is also the leaderboard sort value, so every committed
// score write reorders the leaderboard in the same statement.
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

type companyModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Logo      string    `gorm:"column:logo"`
	Score     int       `gorm:"column:score"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (companyModel) TableName() string {
	return "companies"
}

func (m companyModel) toDomain() domain.Company {
	return domain.Company{
		ID:        domain.CompanyID(m.ID),
		Name:      m.Name,
		Logo:      m.Logo,
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainCompany(c domain.Company) companyModel {
	return companyModel{
		ID:        string(c.ID),
		Name:      c.Name,
		Logo:      c.Logo,
		Score:     c.Score,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create inserts the company, leaving an existing row with the same id
// untouched. Seeding relies on this to be re-runnable.
func (r *CompanyRepository) Create(ctx context.Context, c domain.Company) error {
	model := fromDomainCompany(c)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("gorm companies: insert: %w", err)
	}
	return nil
}

func (r *CompanyRepository) FindByIDs(ctx context.Context, ids ...domain.CompanyID) (map[domain.CompanyID]domain.Company, error) {
	if len(ids) == 0 {
		return map[domain.CompanyID]domain.Company{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	var models []companyModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", raw).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm companies: find by ids: %w", err)
	}

	result := make(map[domain.CompanyID]domain.Company, len(models))
	for _, model := range models {
		result[domain.CompanyID(model.ID)] = model.toDomain()
	}
	return result, nil
}

func (r *CompanyRepository) ListByScore(ctx context.Context, limit int) ([]domain.Company, error) {
	var models []companyModel
	if err := r.db.WithContext(ctx).
		// Secondary order by id keeps ties stable across reads.
		Order("score DESC, id ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm companies: list by score: %w", err)
	}

	result := make([]domain.Company, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *CompanyRepository) ListAll(ctx context.Context) ([]domain.Company, error) {
	var models []companyModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm companies: list all: %w", err)
	}

	result := make([]domain.Company, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *CompanyRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&companyModel{}).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm companies: count: %w", err)
	}
	return total, nil
}

func (r *CompanyRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM companies").Error; err != nil {
		return fmt.Errorf("gorm companies: delete all: %w", err)
	}
	return nil
}

var _ domain.CompanyRepository = (*CompanyRepository)(nil)
