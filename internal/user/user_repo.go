package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAllByCompany(ctx context.Context, companyID string, approved bool) ([]User, error)
	FindSubordinates(ctx context.Context, companyID, managerID string, teamID *string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, companyID, id string) error
	TeamBelongsToCompany(ctx context.Context, companyID, teamID string) (bool, error)
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

// conn routes statements through the enclosing transaction when one
// was attached via WithTx.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error) {
	var u User
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.conn(ctx).
		First(&u, "username = ?", username).Error
	return &u, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, approved bool) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("is_approved = ?", approved).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// FindSubordinates returns approved users who either report to the
// manager directly or share the manager's team.
func (r *repository) FindSubordinates(ctx context.Context, companyID, managerID string, teamID *string) ([]User, error) {
	db := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("is_approved = ?", true).
		Where("id <> ?", managerID)

	if teamID != nil {
		db = db.Where("reports_to = ? OR team_id = ?", managerID, *teamID)
	} else {
		db = db.Where("reports_to = ?", managerID)
	}

	var users []User
	err := db.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.conn(ctx).Save(u).Error
}

func (r *repository) TeamBelongsToCompany(ctx context.Context, companyID, teamID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("teams").
		Where("id = ?", teamID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	// Dependent rows (balances, leaves, attendance, notifications,
	// track sheets) are removed by ON DELETE CASCADE constraints.
	return r.conn(ctx).
		Where("company_id = ?", companyID).
		Unscoped().
		Delete(&User{}, "id = ?", id).Error
}
