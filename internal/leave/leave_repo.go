package leave

import (
	"context"
	"database/sql"

	"go-hrms/internal/rbac"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicantRef is the slice of the users table the workflow needs to
// resolve approvers and address mail.
type ApplicantRef struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Role      string
	TeamID    *uuid.UUID
	ReportsTo *uuid.UUID
}

// CandidateRef is one eligible approver row.
type CandidateRef struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Role        string
	Designation string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	FindApproverIDs(ctx context.Context, leaveID uuid.UUID) ([]uuid.UUID, error)
	IsApprover(ctx context.Context, leaveID uuid.UUID, approverID string) (bool, error)
	FindByApplicant(ctx context.Context, companyID, userID string) ([]LeaveRequest, error)
	FindPendingForApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error)
	FindApplicantRef(ctx context.Context, companyID, userID string) (*ApplicantRef, error)
	FindTeamLeads(ctx context.Context, companyID string, teamID uuid.UUID) ([]CandidateRef, error)
	FindDirectManager(ctx context.Context, companyID string, managerID uuid.UUID) (*CandidateRef, error)
	FindCompanyFallbackApprovers(ctx context.Context, companyID string) ([]CandidateRef, error)
	FindEmailsByIDs(ctx context.Context, companyID string, ids []uuid.UUID) ([]string, error)
	FindUsernamesByIDs(ctx context.Context, companyID string, ids []uuid.UUID) (map[uuid.UUID]string, error)
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

// Create persists the request together with its approver snapshot.
func (r *repository) Create(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error {
	if err := r.conn(ctx).Create(l).Error; err != nil {
		return err
	}
	rows := make([]LeaveApprover, 0, len(approverIDs))
	for _, id := range approverIDs {
		rows = append(rows, LeaveApprover{LeaveRequestID: l.ID, ApproverID: id})
	}
	return r.conn(ctx).Create(&rows).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindByIDForUpdate locks the request row so concurrent actions on
// the same leave serialize.
func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) FindApproverIDs(ctx context.Context, leaveID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Table("leave_approvers").
		Where("leave_request_id = ?", leaveID).
		Pluck("approver_id", &ids).Error
	return ids, err
}

func (r *repository) IsApprover(ctx context.Context, leaveID uuid.UUID, approverID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("leave_approvers").
		Where("leave_request_id = ?", leaveID).
		Where("approver_id = ?", approverID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByApplicant(ctx context.Context, companyID, userID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Order("applied_on DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingForApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Joins("JOIN leave_approvers la ON la.leave_request_id = leave_requests.id").
		Where("la.approver_id = ?", approverID).
		Where("leave_requests.company_id = ?", companyID).
		Where("leave_requests.status = ?", StatusPending).
		Order("leave_requests.applied_on DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindApplicantRef(ctx context.Context, companyID, userID string) (*ApplicantRef, error) {
	var ref ApplicantRef
	err := r.conn(ctx).
		Table("users").
		Select("id", "username", "email", "role", "team_id", "reports_to").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("id = ?", userID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// FindTeamLeads lists the TLs and Managers on the given team.
func (r *repository) FindTeamLeads(ctx context.Context, companyID string, teamID uuid.UUID) ([]CandidateRef, error) {
	var refs []CandidateRef
	err := r.conn(ctx).
		Table("users").
		Select("id", "username", "email", "role", "designation").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("team_id = ?", teamID).
		Where("role IN ?", []string{rbac.RoleTL, rbac.RoleManager}).
		Find(&refs).Error
	return refs, err
}

func (r *repository) FindDirectManager(ctx context.Context, companyID string, managerID uuid.UUID) (*CandidateRef, error) {
	var ref CandidateRef
	err := r.conn(ctx).
		Table("users").
		Select("id", "username", "email", "role", "designation").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("id = ?", managerID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// FindCompanyFallbackApprovers lists the HR and Director users that
// back every applicant who has neither a manager nor team leads.
func (r *repository) FindCompanyFallbackApprovers(ctx context.Context, companyID string) ([]CandidateRef, error) {
	var refs []CandidateRef
	err := r.conn(ctx).
		Table("users").
		Select("id", "username", "email", "role", "designation").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("role IN ?", []string{rbac.RoleHR, rbac.RoleDirector}).
		Find(&refs).Error
	return refs, err
}

func (r *repository) FindEmailsByIDs(ctx context.Context, companyID string, ids []uuid.UUID) ([]string, error) {
	var emails []string
	err := r.conn(ctx).
		Table("users").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("id IN ?", ids).
		Pluck("email", &emails).Error
	return emails, err
}

func (r *repository) FindUsernamesByIDs(ctx context.Context, companyID string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []struct {
		ID       uuid.UUID
		Username string
	}
	err := r.conn(ctx).
		Table("users").
		Select("id", "username").
		Where("company_id = ?", companyID).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Username
	}
	return out, nil
}
