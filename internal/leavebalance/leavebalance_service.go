package leavebalance

import (
	"context"
	"database/sql"

	leavebalanceerrors "go-hrms/internal/leavebalance/errors"
	"go-hrms/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID, actorID, actorRole, userID string) (BalanceResponse, error)
	Allocate(ctx context.Context, companyID, actorID, actorRole, userID string, req AllocateRequest) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Get(ctx context.Context, companyID, actorID, actorRole, userID string) (BalanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}

	if actorID != userID {
		if err := s.requireQuotaManager(ctx, companyID, actorID, actorRole, userID); err != nil {
			return BalanceResponse{}, err
		}
	}

	b, err := s.repo.GetOrCreate(ctx, companyUUID, userUUID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

// Allocate sets the quota counters. Allowed for HR or the user's
// direct reporting manager.
func (s *service) Allocate(ctx context.Context, companyID, actorID, actorRole, userID string, req AllocateRequest) (BalanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}
	if req.CasualLeave < 0 || req.SickLeave < 0 {
		return BalanceResponse{}, leavebalanceerrors.ErrNegativeQuota
	}

	if err := s.requireQuotaManager(ctx, companyID, actorID, actorRole, userID); err != nil {
		return BalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.GetOrCreate(ctx, companyUUID, userUUID)
	if err != nil {
		return BalanceResponse{}, err
	}

	b.CasualLeave = req.CasualLeave
	b.SickLeave = req.SickLeave

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("allocate quota persist failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("leave quota updated",
		zap.String("user_id", userID),
		zap.Int("casual", b.CasualLeave),
		zap.Int("sick", b.SickLeave),
	)
	return mapToResponse(*b), nil
}

func (s *service) requireQuotaManager(ctx context.Context, companyID, actorID, actorRole, userID string) error {
	if actorRole == rbac.RoleHR {
		return nil
	}
	reports, err := s.repo.UserReportsTo(ctx, companyID, userID, actorID)
	if err != nil {
		return err
	}
	if !reports {
		return leavebalanceerrors.ErrNotQuotaManager
	}
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		UserID:      b.UserID.String(),
		CasualLeave: b.CasualLeave,
		SickLeave:   b.SickLeave,
	}
}
