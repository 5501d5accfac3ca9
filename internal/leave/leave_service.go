package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/attendance"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/leavebalance"
	leavebalanceerrors "go-hrms/internal/leavebalance/errors"
	"go-hrms/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer delivers one message through the company's outbound channel.
// Delivery problems are the caller's to swallow.
type Mailer interface {
	Send(ctx context.Context, companyID string, to []string, subject, body string) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	ApproverCandidates(ctx context.Context, companyID, userID string) ([]ApproverCandidate, error)
	Apply(ctx context.Context, companyID, userID string, req ApplyRequest) (LeaveResponse, error)
	Action(ctx context.Context, companyID, actorID, leaveID, action string) (LeaveResponse, error)
	MyLeaves(ctx context.Context, companyID, userID string) ([]LeaveResponse, error)
	PendingApprovals(ctx context.Context, companyID, approverID string) ([]LeaveResponse, error)
}

type service struct {
	db               *sql.DB
	repo             Repository
	balanceRepo      leavebalance.Repository
	attendanceRepo   attendance.Repository
	notificationRepo notification.Repository
	mailer           Mailer
	logger           *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo leavebalance.Repository,
	attendanceRepo attendance.Repository,
	notificationRepo notification.Repository,
	mailer Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:               db,
		repo:             repo,
		balanceRepo:      balanceRepo,
		attendanceRepo:   attendanceRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		logger:           l,
	}
}

// ApproverCandidates resolves who may approve a leave for the given
// applicant: the direct manager plus the TLs and Managers of the
// applicant's team, never the applicant. When that comes up empty the
// company's HR and Director users stand in, so anyone can always file
// as long as the company has an HR or Director.
func (s *service) ApproverCandidates(ctx context.Context, companyID, userID string) ([]ApproverCandidate, error) {
	applicant, err := s.repo.FindApplicantRef(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrApplicantNotFound
		}
		return nil, err
	}

	refs, defaultID, err := s.candidateRefs(ctx, companyID, applicant)
	if err != nil {
		return nil, err
	}

	out := make([]ApproverCandidate, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ApproverCandidate{
			ID:          ref.ID.String(),
			Username:    ref.Username,
			Role:        ref.Role,
			Designation: ref.Designation,
			IsDefault:   defaultID != nil && ref.ID == *defaultID,
		})
	}
	return out, nil
}

func (s *service) candidateRefs(ctx context.Context, companyID string, applicant *ApplicantRef) ([]CandidateRef, *uuid.UUID, error) {
	var (
		refs      []CandidateRef
		seen      = map[uuid.UUID]bool{applicant.ID: true}
		defaultID *uuid.UUID
	)
	add := func(ref CandidateRef) {
		if seen[ref.ID] {
			return
		}
		seen[ref.ID] = true
		refs = append(refs, ref)
	}

	if applicant.ReportsTo != nil {
		manager, err := s.repo.FindDirectManager(ctx, companyID, *applicant.ReportsTo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		if manager != nil {
			add(*manager)
			defaultID = &manager.ID
		}
	}

	if applicant.TeamID != nil {
		leads, err := s.repo.FindTeamLeads(ctx, companyID, *applicant.TeamID)
		if err != nil {
			return nil, nil, err
		}
		for _, lead := range leads {
			add(lead)
		}
	}

	if len(refs) == 0 {
		fallback, err := s.repo.FindCompanyFallbackApprovers(ctx, companyID)
		if err != nil {
			return nil, nil, err
		}
		for _, ref := range fallback {
			add(ref)
		}
	}
	return refs, defaultID, nil
}

func (s *service) Apply(ctx context.Context, companyID, userID string, req ApplyRequest) (LeaveResponse, error) {
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	applicant, err := s.repo.FindApplicantRef(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrApplicantNotFound
		}
		return LeaveResponse{}, err
	}

	candidates, _, err := s.candidateRefs(ctx, companyID, applicant)
	if err != nil {
		return LeaveResponse{}, err
	}
	eligible := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		eligible[c.ID] = true
	}

	approverIDs := make([]uuid.UUID, 0, len(req.ApproverIDs))
	for _, raw := range req.ApproverIDs {
		id, err := uuid.Parse(raw)
		if err != nil || !eligible[id] {
			return LeaveResponse{}, leaveerrors.ErrInvalidApprovers
		}
		approverIDs = append(approverIDs, id)
	}
	if len(approverIDs) == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoApprovers
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrApplicantNotFound
	}

	l := &LeaveRequest{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		UserID:    applicant.ID,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	// Notify broadcasts information only; nothing to approve and no
	// balance to spend.
	if req.LeaveType == TypeNotify {
		l.Status = StatusApproved
	} else {
		balance, err := s.balanceRepo.GetOrCreate(ctx, companyUUID, applicant.ID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if balance.Remaining(req.LeaveType) < l.DaysRequested() {
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, l, approverIDs); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, fmt.Errorf("commit leave request: %w", err)
	}

	s.notifyApprovers(ctx, companyID, applicant, l, approverIDs)

	resp := mapToResponse(*l)
	resp.Username = applicant.Username
	resp.ApproverIDs = req.ApproverIDs
	return resp, nil
}

// notifyApprovers sends the outbound mail and writes the in-app rows.
// Both are best-effort; a dead mail channel never fails the request.
func (s *service) notifyApprovers(ctx context.Context, companyID string, applicant *ApplicantRef, l *LeaveRequest, approverIDs []uuid.UUID) {
	subject := fmt.Sprintf("Leave Request: %s", applicant.Username)
	if l.LeaveType == TypeNotify {
		subject = fmt.Sprintf("Leave Notification: %s", applicant.Username)
	}
	body := fmt.Sprintf(
		"User: %s\nType: %s\nDate: %s to %s\nReason: %s",
		applicant.Username,
		l.LeaveType,
		l.StartDate.Format("2006-01-02"),
		l.EndDate.Format("2006-01-02"),
		l.Reason,
	)

	emails, err := s.repo.FindEmailsByIDs(ctx, companyID, approverIDs)
	if err != nil {
		s.logger.Warn("approver email lookup failed", zap.Error(err), zap.String("leave_id", l.ID.String()))
	} else if len(emails) > 0 {
		if err := s.mailer.Send(ctx, companyID, emails, subject, body); err != nil {
			s.logger.Warn("leave mail delivery failed", zap.Error(err), zap.String("leave_id", l.ID.String()))
		}
	}

	rows := make([]notification.Notification, 0, len(approverIDs))
	for _, id := range approverIDs {
		rows = append(rows, notification.Notification{
			ID:          uuid.New(),
			CompanyID:   l.CompanyID,
			RecipientID: id,
			SenderID:    applicant.ID,
			Title:       subject,
			Message:     body,
		})
	}
	if err := s.notificationRepo.CreateBatch(ctx, rows); err != nil {
		s.logger.Error("leave notifications not written", zap.Error(err), zap.String("leave_id", l.ID.String()))
	}
}

// Action approves or rejects a pending request as one atomic unit.
// The request row is locked first so two concurrent actions serialize,
// and the balance row is locked before the debit so a racing approval
// of another leave cannot double-spend.
func (s *service) Action(ctx context.Context, companyID, actorID, leaveID, action string) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrNotAnApprover
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, companyID, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	isApprover, err := qtx.IsApprover(ctx, l.ID, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !isApprover {
		return LeaveResponse{}, leaveerrors.ErrNotAnApprover
	}

	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	switch action {
	case "approve":
		if err := s.approve(ctx, tx, companyID, actorUUID, l); err != nil {
			return LeaveResponse{}, err
		}
	case "reject":
		l.Status = StatusRejected
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	l.ActionBy = &actorUUID
	if err := qtx.Update(ctx, l); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, fmt.Errorf("commit leave action: %w", err)
	}

	s.logger.Info("leave actioned",
		zap.String("leave_id", l.ID.String()),
		zap.String("action_by", actorID),
		zap.String("status", l.Status))
	return mapToResponse(*l), nil
}

// approve re-checks and debits the balance, then writes one Leave
// attendance record per day of the inclusive range, overwriting
// whatever was there.
func (s *service) approve(ctx context.Context, tx *sql.Tx, companyID string, actorUUID uuid.UUID, l *LeaveRequest) error {
	days := l.DaysRequested()

	balance, err := s.balanceRepo.WithTx(tx).FindByUserForUpdate(ctx, companyID, l.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavebalanceerrors.ErrBalanceNotFound
		}
		return err
	}
	if balance.Remaining(l.LeaveType) < days {
		return leaveerrors.ErrInsufficientBalance
	}
	balance.Debit(l.LeaveType, days)
	if err := s.balanceRepo.WithTx(tx).Update(ctx, balance); err != nil {
		return err
	}

	qatt := s.attendanceRepo.WithTx(tx)
	for d := l.StartDate; !d.After(l.EndDate); d = d.AddDate(0, 0, 1) {
		record := &attendance.Attendance{
			ID:        uuid.New(),
			CompanyID: l.CompanyID,
			UserID:    l.UserID,
			Date:      d,
			Status:    attendance.StatusLeave,
			MarkedBy:  actorUUID,
		}
		if err := qatt.Upsert(ctx, record); err != nil {
			return err
		}
	}

	l.Status = StatusApproved
	return nil
}

func (s *service) MyLeaves(ctx context.Context, companyID, userID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindByApplicant(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out, nil
}

func (s *service) PendingApprovals(ctx context.Context, companyID, approverID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPendingForApprover(ctx, companyID, approverID)
	if err != nil {
		return nil, err
	}

	applicantIDs := make([]uuid.UUID, 0, len(leaves))
	for _, l := range leaves {
		applicantIDs = append(applicantIDs, l.UserID)
	}
	names := map[uuid.UUID]string{}
	if len(applicantIDs) > 0 {
		names, err = s.repo.FindUsernamesByIDs(ctx, companyID, applicantIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resp := mapToResponse(l)
		resp.Username = names[l.UserID]
		out = append(out, resp)
	}
	return out, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		LeaveType: l.LeaveType,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Days:      l.DaysRequested(),
		Reason:    l.Reason,
		Status:    l.Status,
		AppliedOn: l.AppliedOn,
	}
	if l.ActionBy != nil {
		actionBy := l.ActionBy.String()
		resp.ActionBy = &actionBy
	}
	return resp
}
