package user

import (
	"context"
	"database/sql"
	"errors"

	"go-hrms/internal/leavebalance"
	usererrors "go-hrms/internal/user/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reportingChainLimit bounds the cycle-check walk so a corrupted
// chain cannot loop forever.
const reportingChainLimit = 100

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	Pending(ctx context.Context, companyID string) ([]UserResponse, error)
	Active(ctx context.Context, companyID string) ([]UserResponse, error)
	Subordinates(ctx context.Context, companyID, managerID string) ([]UserResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ApproveUserRequest) (UserResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, companyID, actorID, id string) error
	UpdatePayroll(ctx context.Context, companyID, id string, req UpdatePayrollRequest) (PayrollDetailsResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo leavebalance.Repository
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, balanceRepo leavebalance.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, balanceRepo: balanceRepo, logger: l}
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}
	return MapToResponse(*u), nil
}

func (s *service) Pending(ctx context.Context, companyID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) Active(ctx context.Context, companyID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, companyID, true)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) Subordinates(ctx context.Context, companyID, managerID string) ([]UserResponse, error) {
	manager, err := s.repo.FindByIDAndCompany(ctx, companyID, managerID)
	if err != nil {
		return nil, MapRepositoryError(err)
	}

	var teamID *string
	if manager.TeamID != nil {
		v := manager.TeamID.String()
		teamID = &v
	}

	users, err := s.repo.FindSubordinates(ctx, companyID, managerID, teamID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

// Approve performs the one-shot HR onboarding: role, section, team,
// reporting manager and the approval flag are set together, and the
// leave balance row is ensured.
func (s *service) Approve(ctx context.Context, companyID, actorID, id string, req ApproveUserRequest) (UserResponse, error) {
	s.logger.Debug("approve user requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("user_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}
	if u.IsApproved {
		return UserResponse{}, usererrors.ErrAlreadyApproved
	}

	if err := s.applyOrgEdges(ctx, qtx, companyID, u, req.TeamID, req.ReportsTo); err != nil {
		return UserResponse{}, err
	}

	u.Role = req.Role
	u.Section = req.Section
	u.Designation = req.Designation
	u.IsApproved = true

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("approve user persist failed", zap.Error(err))
		return UserResponse{}, MapRepositoryError(err)
	}

	if _, err := s.balanceRepo.WithTx(tx).GetOrCreate(ctx, u.CompanyID, u.ID); err != nil {
		s.logger.Error("approve user ensure balance failed", zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	s.logger.Info("user onboarded",
		zap.String("user_id", id),
		zap.String("role", u.Role),
	)

	return MapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID, id string, req UpdateUserRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}

	if err := s.applyOrgEdges(ctx, qtx, companyID, u, req.TeamID, req.ReportsTo); err != nil {
		return UserResponse{}, err
	}

	u.Section = req.Section
	u.Designation = req.Designation

	// A user cannot change their own role.
	if req.Role != nil && id != actorID {
		u.Role = *req.Role
	}

	if err := qtx.Update(ctx, u); err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	return MapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, companyID, actorID, id string) error {
	if id == actorID {
		return usererrors.ErrCannotDeleteSelf
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return MapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actorID))
	return nil
}

func (s *service) UpdatePayroll(ctx context.Context, companyID, id string, req UpdatePayrollRequest) (PayrollDetailsResponse, error) {
	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil || salary.IsNegative() {
		return PayrollDetailsResponse{}, usererrors.ErrInvalidAmount
	}
	esi, err := decimal.NewFromString(req.ESIPercentage)
	if err != nil || esi.IsNegative() {
		return PayrollDetailsResponse{}, usererrors.ErrInvalidAmount
	}
	pTax, err := decimal.NewFromString(req.ProfessionalTax)
	if err != nil || pTax.IsNegative() {
		return PayrollDetailsResponse{}, usererrors.ErrInvalidAmount
	}

	u, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollDetailsResponse{}, MapRepositoryError(err)
	}

	u.MonthlySalary = salary
	u.ESIPercentage = esi
	u.ProfessionalTax = pTax

	if err := s.repo.Update(ctx, u); err != nil {
		return PayrollDetailsResponse{}, MapRepositoryError(err)
	}

	return PayrollDetailsResponse{
		MonthlySalary:   u.MonthlySalary.StringFixed(2),
		ESIPercentage:   u.ESIPercentage.StringFixed(2),
		ProfessionalTax: u.ProfessionalTax.StringFixed(2),
	}, nil
}

// applyOrgEdges validates and sets the team and reporting-manager
// edges on u.
func (s *service) applyOrgEdges(ctx context.Context, repo Repository, companyID string, u *User, teamID, reportsTo *string) error {
	if teamID != nil && *teamID != "" {
		teamUUID, err := uuid.Parse(*teamID)
		if err != nil {
			return usererrors.ErrTeamNotFound
		}
		ok, err := repo.TeamBelongsToCompany(ctx, companyID, *teamID)
		if err != nil {
			return err
		}
		if !ok {
			return usererrors.ErrTeamNotFound
		}
		u.TeamID = &teamUUID
	} else {
		u.TeamID = nil
	}

	if reportsTo != nil && *reportsTo != "" {
		managerUUID, err := uuid.Parse(*reportsTo)
		if err != nil {
			return usererrors.ErrManagerNotFound
		}
		if managerUUID == u.ID {
			return usererrors.ErrReportingCycle
		}
		manager, err := repo.FindByIDAndCompany(ctx, companyID, *reportsTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usererrors.ErrManagerNotFound
			}
			return err
		}
		if err := s.checkReportingCycle(ctx, repo, companyID, u.ID, manager); err != nil {
			return err
		}
		u.ReportsTo = &managerUUID
	} else {
		u.ReportsTo = nil
	}

	return nil
}

// checkReportingCycle walks the manager chain upward from the proposed
// manager; reaching the user itself means the edge would close a loop.
func (s *service) checkReportingCycle(ctx context.Context, repo Repository, companyID string, userID uuid.UUID, manager *User) error {
	current := manager
	for i := 0; i < reportingChainLimit; i++ {
		if current.ID == userID {
			return usererrors.ErrReportingCycle
		}
		if current.ReportsTo == nil {
			return nil
		}
		next, err := repo.FindByIDAndCompany(ctx, companyID, current.ReportsTo.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		current = next
	}
	return usererrors.ErrReportingCycle
}

func MapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		CompanyID:   u.CompanyID.String(),
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Section:     u.Section,
		Designation: u.Designation,
		IsApproved:  u.IsApproved,
	}
	if u.TeamID != nil {
		v := u.TeamID.String()
		resp.TeamID = &v
	}
	if u.ReportsTo != nil {
		v := u.ReportsTo.String()
		resp.ReportsTo = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = MapToResponse(u)
	}
	return resp
}
