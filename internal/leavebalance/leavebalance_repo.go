package leavebalance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetOrCreate(ctx context.Context, companyID, userID uuid.UUID) (*LeaveBalance, error)
	FindByUser(ctx context.Context, companyID, userID string) (*LeaveBalance, error)
	FindByUserForUpdate(ctx context.Context, companyID, userID string) (*LeaveBalance, error)
	Update(ctx context.Context, b *LeaveBalance) error
	UserReportsTo(ctx context.Context, companyID, userID, managerID string) (bool, error)
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
// was attached via WithTx; row locks taken here must live and die with
// that transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) GetOrCreate(ctx context.Context, companyID, userID uuid.UUID) (*LeaveBalance, error) {
	b := &LeaveBalance{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
	}
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(b)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		err := r.conn(ctx).
			Where("user_id = ?", userID).
			First(b).Error
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (r *repository) FindByUser(ctx context.Context, companyID, userID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&b, "user_id = ?", userID).Error
	return &b, err
}

// FindByUserForUpdate locks the balance row so two concurrent
// approvals cannot both debit it.
func (r *repository) FindByUserForUpdate(ctx context.Context, companyID, userID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&b, "user_id = ?", userID).Error
	return &b, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Save(b).Error
}

func (r *repository) UserReportsTo(ctx context.Context, companyID, userID, managerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Where("company_id = ?", companyID).
		Where("reports_to = ?", managerID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
