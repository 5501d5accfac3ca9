package team

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=team_repo.go -destination=mock/team_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetOrCreate(ctx context.Context, t *Team) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Team, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Team, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetOrCreate inserts the team or, when (company, name) already
// exists, loads the existing row into t.
func (r *repository) GetOrCreate(ctx context.Context, t *Team) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).
			Where("company_id = ? AND name = ?", t.CompanyID, t.Name).
			First(t).Error
	}
	return nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Team, error) {
	var teams []Team
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&t, "id = ?", id).Error
	return &t, err
}
