package company

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	companyerrors "go-hrms/internal/company/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID string) (CompanyResponse, error)
	UpdateSMTP(ctx context.Context, companyID string, req UpdateSMTPRequest) (CompanyResponse, error)
	CreateHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	HolidaysByMonth(ctx context.Context, companyID string, year int, month time.Month) ([]HolidayResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Get(ctx context.Context, companyID string) (CompanyResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) UpdateSMTP(ctx context.Context, companyID string, req UpdateSMTPRequest) (CompanyResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update smtp begin tx failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	c.SMTPHost = strings.TrimSpace(req.Host)
	c.SMTPPort = req.Port
	c.SMTPUsername = req.Username
	c.SMTPPassword = req.Password
	c.SMTPUseTLS = req.UseTLS

	if err := qtx.Update(ctx, c); err != nil {
		s.logger.Error("update smtp persist failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	s.logger.Info("smtp settings updated", zap.String("company_id", companyID))
	return mapToResponse(*c), nil
}

func (s *service) CreateHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, companyerrors.ErrInvalidCompanyID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, companyerrors.ErrInvalidDateFormat
	}

	h := &PublicHoliday{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Date:      date,
		Name:      req.Name,
	}

	if err := s.repo.CreateHoliday(ctx, h); err != nil {
		if isUniqueViolation(err) {
			return HolidayResponse{}, companyerrors.ErrHolidayExists
		}
		s.logger.Error("create holiday failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	return mapHolidayToResponse(*h), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func (s *service) HolidaysByMonth(ctx context.Context, companyID string, year int, month time.Month) ([]HolidayResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	holidays, err := s.repo.FindHolidaysByMonth(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}

	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapHolidayToResponse(h)
	}
	return resp, nil
}

func mapToResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		HREmail:    c.HREmail,
		SMTPHost:   c.SMTPHost,
		SMTPPort:   c.SMTPPort,
		SMTPUseTLS: c.SMTPUseTLS,
	}
}

func mapHolidayToResponse(h PublicHoliday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
