package company

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	companyerrors "go-hrms/internal/company/errors"
)

type fakeRepo struct {
	createHolidayFn func(ctx context.Context, h *PublicHoliday) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                 { return f }
func (f *fakeRepo) Update(ctx context.Context, c *Company) error { return nil }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Company, error) {
	return nil, nil
}
func (f *fakeRepo) CreateHoliday(ctx context.Context, h *PublicHoliday) error {
	return f.createHolidayFn(ctx, h)
}
func (f *fakeRepo) FindHolidaysByMonth(ctx context.Context, companyID string, year int, month time.Month) ([]PublicHoliday, error) {
	return nil, nil
}

func TestService_CreateHoliday_DuplicateDate(t *testing.T) {
	repo := &fakeRepo{createHolidayFn: func(ctx context.Context, h *PublicHoliday) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_public_holidays_company_date"}
	}}
	svc := NewService(nil, repo)

	_, err := svc.CreateHoliday(context.Background(), uuid.New().String(), CreateHolidayRequest{
		Date: "2026-03-17",
		Name: "Founders Day",
	})
	assert.ErrorIs(t, err, companyerrors.ErrHolidayExists)
}

func TestService_CreateHoliday_DuplicateDateMessageFallback(t *testing.T) {
	repo := &fakeRepo{createHolidayFn: func(ctx context.Context, h *PublicHoliday) error {
		return errors.New(`ERROR: duplicate key value violates unique constraint "idx_public_holidays_company_date"`)
	}}
	svc := NewService(nil, repo)

	_, err := svc.CreateHoliday(context.Background(), uuid.New().String(), CreateHolidayRequest{
		Date: "2026-03-17",
		Name: "Founders Day",
	})
	assert.ErrorIs(t, err, companyerrors.ErrHolidayExists)
}

func TestService_CreateHoliday_BadDate(t *testing.T) {
	repo := &fakeRepo{createHolidayFn: func(ctx context.Context, h *PublicHoliday) error {
		t.Fatal("repo reached with an unparseable date")
		return nil
	}}
	svc := NewService(nil, repo)

	_, err := svc.CreateHoliday(context.Background(), uuid.New().String(), CreateHolidayRequest{
		Date: "17-03-2026",
		Name: "Founders Day",
	})
	assert.ErrorIs(t, err, companyerrors.ErrInvalidDateFormat)
}
