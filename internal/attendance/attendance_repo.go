package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRef is the slice of the users table the attendance engine needs
// for authorization and payroll.
type UserRef struct {
	ID              uuid.UUID
	Role            string
	TeamID          *uuid.UUID
	ReportsTo       *uuid.UUID
	MonthlySalary   decimal.Decimal
	ESIPercentage   decimal.Decimal
	ProfessionalTax decimal.Decimal
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, a *Attendance) error
	FindByUserAndMonth(ctx context.Context, companyID, userID string, year int, month time.Month) ([]Attendance, error)
	FindLatestPriorSecondLate(ctx context.Context, companyID, userID string, before time.Time) (*Attendance, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	FindUserRef(ctx context.Context, companyID, userID string) (*UserRef, error)
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

// Upsert writes the (user, date) record, replacing status, login time
// and the marking actor when the day was already recorded.
func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "login_time", "marked_by", "updated_at"}),
		}).
		Create(a).Error
}

func (r *repository) FindByUserAndMonth(ctx context.Context, companyID, userID string, year int, month time.Month) ([]Attendance, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

// PriorSecondLateWindow bounds the backward search for a 2nd Late to
// [month start, before). A 2nd Late in an earlier month is out of the
// window and stays untouched.
func PriorSecondLateWindow(before time.Time) (start, end time.Time) {
	start = time.Date(before.Year(), before.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, before
}

// FindLatestPriorSecondLate looks for the most recent 2nd Late record
// strictly before the given date, scoped to that date's month.
func (r *repository) FindLatestPriorSecondLate(ctx context.Context, companyID, userID string, before time.Time) (*Attendance, error) {
	start, end := PriorSecondLateWindow(before)

	var a Attendance
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Where("status = ?", StatusSecondLate).
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.conn(ctx).
		Model(&Attendance{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindUserRef(ctx context.Context, companyID, userID string) (*UserRef, error) {
	var ref UserRef
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id", "role", "team_id", "reports_to", "monthly_salary", "esi_percentage", "professional_tax").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("id = ?", userID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
