package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-hrms/internal/attendance"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/leavebalance"
	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
)

type fakeRepo struct {
	createFn                 func(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error
	findByIDForUpdateFn      func(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	updateFn                 func(ctx context.Context, l *LeaveRequest) error
	isApproverFn             func(ctx context.Context, leaveID uuid.UUID, approverID string) (bool, error)
	findByApplicantFn        func(ctx context.Context, companyID, userID string) ([]LeaveRequest, error)
	findPendingForApproverFn func(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error)
	findApplicantRefFn       func(ctx context.Context, companyID, userID string) (*ApplicantRef, error)
	findTeamLeadsFn          func(ctx context.Context, companyID string, teamID uuid.UUID) ([]CandidateRef, error)
	findDirectManagerFn      func(ctx context.Context, companyID string, managerID uuid.UUID) (*CandidateRef, error)
	findFallbackFn           func(ctx context.Context, companyID string) ([]CandidateRef, error)
	findEmailsByIDsFn        func(ctx context.Context, companyID string, ids []uuid.UUID) ([]string, error)
	findUsernamesByIDsFn     func(ctx context.Context, companyID string, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error {
	return f.createFn(ctx, l, approverIDs)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	return f.findByIDForUpdateFn(ctx, companyID, id)
}
func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	return f.findByIDForUpdateFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, l *LeaveRequest) error { return f.updateFn(ctx, l) }
func (f *fakeRepo) FindApproverIDs(ctx context.Context, leaveID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (f *fakeRepo) IsApprover(ctx context.Context, leaveID uuid.UUID, approverID string) (bool, error) {
	return f.isApproverFn(ctx, leaveID, approverID)
}
func (f *fakeRepo) FindByApplicant(ctx context.Context, companyID, userID string) ([]LeaveRequest, error) {
	return f.findByApplicantFn(ctx, companyID, userID)
}
func (f *fakeRepo) FindPendingForApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error) {
	return f.findPendingForApproverFn(ctx, companyID, approverID)
}
func (f *fakeRepo) FindApplicantRef(ctx context.Context, companyID, userID string) (*ApplicantRef, error) {
	return f.findApplicantRefFn(ctx, companyID, userID)
}
func (f *fakeRepo) FindTeamLeads(ctx context.Context, companyID string, teamID uuid.UUID) ([]CandidateRef, error) {
	if f.findTeamLeadsFn != nil {
		return f.findTeamLeadsFn(ctx, companyID, teamID)
	}
	return nil, nil
}
func (f *fakeRepo) FindDirectManager(ctx context.Context, companyID string, managerID uuid.UUID) (*CandidateRef, error) {
	if f.findDirectManagerFn != nil {
		return f.findDirectManagerFn(ctx, companyID, managerID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindCompanyFallbackApprovers(ctx context.Context, companyID string) ([]CandidateRef, error) {
	if f.findFallbackFn != nil {
		return f.findFallbackFn(ctx, companyID)
	}
	return nil, nil
}
func (f *fakeRepo) FindEmailsByIDs(ctx context.Context, companyID string, ids []uuid.UUID) ([]string, error) {
	if f.findEmailsByIDsFn != nil {
		return f.findEmailsByIDsFn(ctx, companyID, ids)
	}
	return nil, nil
}
func (f *fakeRepo) FindUsernamesByIDs(ctx context.Context, companyID string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if f.findUsernamesByIDsFn != nil {
		return f.findUsernamesByIDsFn(ctx, companyID, ids)
	}
	return map[uuid.UUID]string{}, nil
}

type fakeBalanceRepo struct {
	getOrCreateFn         func(ctx context.Context, companyID, userID uuid.UUID) (*leavebalance.LeaveBalance, error)
	findByUserForUpdateFn func(ctx context.Context, companyID, userID string) (*leavebalance.LeaveBalance, error)
	updateFn              func(ctx context.Context, b *leavebalance.LeaveBalance) error
}

func (f *fakeBalanceRepo) WithTx(tx *sql.Tx) leavebalance.Repository { return f }
func (f *fakeBalanceRepo) GetOrCreate(ctx context.Context, companyID, userID uuid.UUID) (*leavebalance.LeaveBalance, error) {
	return f.getOrCreateFn(ctx, companyID, userID)
}
func (f *fakeBalanceRepo) FindByUser(ctx context.Context, companyID, userID string) (*leavebalance.LeaveBalance, error) {
	return f.findByUserForUpdateFn(ctx, companyID, userID)
}
func (f *fakeBalanceRepo) FindByUserForUpdate(ctx context.Context, companyID, userID string) (*leavebalance.LeaveBalance, error) {
	return f.findByUserForUpdateFn(ctx, companyID, userID)
}
func (f *fakeBalanceRepo) Update(ctx context.Context, b *leavebalance.LeaveBalance) error {
	return f.updateFn(ctx, b)
}
func (f *fakeBalanceRepo) UserReportsTo(ctx context.Context, companyID, userID, managerID string) (bool, error) {
	return false, nil
}

type fakeAttendanceRepo struct {
	upserted []attendance.Attendance
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeAttendanceRepo) Upsert(ctx context.Context, a *attendance.Attendance) error {
	f.upserted = append(f.upserted, *a)
	return nil
}
func (f *fakeAttendanceRepo) FindByUserAndMonth(ctx context.Context, companyID, userID string, year int, month time.Month) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) FindLatestPriorSecondLate(ctx context.Context, companyID, userID string, before time.Time) (*attendance.Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAttendanceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeAttendanceRepo) FindUserRef(ctx context.Context, companyID, userID string) (*attendance.UserRef, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeNotificationRepo struct {
	batches [][]notification.Notification
}

func (f *fakeNotificationRepo) WithTx(tx *sql.Tx) notification.Repository { return f }
func (f *fakeNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	return nil
}
func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, ns []notification.Notification) error {
	f.batches = append(f.batches, ns)
	return nil
}
func (f *fakeNotificationRepo) FindByRecipient(ctx context.Context, companyID, recipientID string, limit, offset int) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotificationRepo) MarkRead(ctx context.Context, companyID, recipientID, id string) (int64, error) {
	return 0, nil
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (f *fakeMailer) Send(ctx context.Context, companyID string, to []string, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestService_ApproverCandidates_ManagerAndLeads(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	teamID := uuid.New()
	managerID := uuid.New()
	leadID := uuid.New()
	applicantID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", TeamID: &teamID, ReportsTo: &managerID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: managerID, Username: "sam", Role: rbac.RoleManager}, nil
	}
	repo.findTeamLeadsFn = func(ctx context.Context, cid string, tid uuid.UUID) ([]CandidateRef, error) {
		return []CandidateRef{
			{ID: managerID, Username: "sam", Role: rbac.RoleManager},
			{ID: leadID, Username: "ash", Role: rbac.RoleTL},
			{ID: applicantID, Username: "jordan", Role: rbac.RoleTL},
		}, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	out, err := svc.ApproverCandidates(context.Background(), uuid.New().String(), applicantID.String())
	assert.NoError(t, err)

	// Manager first and marked default; duplicates and the applicant
	// are dropped.
	if assert.Len(t, out, 2) {
		assert.Equal(t, managerID.String(), out[0].ID)
		assert.True(t, out[0].IsDefault)
		assert.Equal(t, leadID.String(), out[1].ID)
		assert.False(t, out[1].IsDefault)
	}
}

func TestService_ApproverCandidates_Fallback(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	applicantID := uuid.New()
	hrID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan"}, nil
	}
	repo.findFallbackFn = func(ctx context.Context, cid string) ([]CandidateRef, error) {
		return []CandidateRef{{ID: hrID, Username: "harper", Role: rbac.RoleHR}}, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	out, err := svc.ApproverCandidates(context.Background(), uuid.New().String(), applicantID.String())
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		assert.Equal(t, hrID.String(), out[0].ID)
		assert.False(t, out[0].IsDefault)
	}
}

func TestService_Apply_HappyPath(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	applicantID := uuid.New()
	approverID := uuid.New()

	var created *LeaveRequest
	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", ReportsTo: &approverID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: approverID, Username: "sam", Role: rbac.RoleManager}, nil
	}
	repo.findEmailsByIDsFn = func(ctx context.Context, cid string, ids []uuid.UUID) ([]string, error) {
		return []string{"sam@acme.test"}, nil
	}
	repo.createFn = func(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error {
		created = l
		assert.Equal(t, []uuid.UUID{approverID}, approverIDs)
		return nil
	}

	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.getOrCreateFn = func(ctx context.Context, cid, uid uuid.UUID) (*leavebalance.LeaveBalance, error) {
		return &leavebalance.LeaveBalance{CasualLeave: 5, SickLeave: 5}, nil
	}

	mailer := &fakeMailer{}
	notifRepo := &fakeNotificationRepo{}
	svc := NewService(db, repo, balanceRepo, &fakeAttendanceRepo{}, notifRepo, mailer)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Apply(context.Background(), companyID.String(), applicantID.String(), ApplyRequest{
		LeaveType:   TypeCasual,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-03",
		Reason:      "family event",
		ApproverIDs: []string{approverID.String()},
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 3, resp.Days)
	if assert.NotNil(t, created) {
		assert.Equal(t, StatusPending, created.Status)
	}

	// Approvers were notified over both channels after commit.
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "Leave Request: jordan", mailer.sent[0].subject)
		assert.Contains(t, mailer.sent[0].body, "2026-06-01 to 2026-06-03")
	}
	if assert.Len(t, notifRepo.batches, 1) {
		assert.Len(t, notifRepo.batches[0], 1)
		assert.Equal(t, approverID, notifRepo.batches[0][0].RecipientID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_InsufficientBalance(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	applicantID := uuid.New()
	approverID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", ReportsTo: &approverID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: approverID, Username: "sam"}, nil
	}

	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.getOrCreateFn = func(ctx context.Context, cid, uid uuid.UUID) (*leavebalance.LeaveBalance, error) {
		return &leavebalance.LeaveBalance{CasualLeave: 2}, nil
	}

	svc := NewService(db, repo, balanceRepo, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	_, err := svc.Apply(context.Background(), uuid.New().String(), applicantID.String(), ApplyRequest{
		LeaveType:   TypeCasual,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-03",
		Reason:      "family event",
		ApproverIDs: []string{approverID.String()},
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
}

func TestService_Apply_NotifyAutoApproves(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	applicantID := uuid.New()
	approverID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", ReportsTo: &approverID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: approverID, Username: "sam"}, nil
	}
	repo.createFn = func(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error { return nil }

	// Balance repo must not be touched for a Notify entry.
	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.getOrCreateFn = func(ctx context.Context, cid, uid uuid.UUID) (*leavebalance.LeaveBalance, error) {
		t.Fatal("balance consulted for Notify leave")
		return nil, nil
	}

	mailer := &fakeMailer{}
	svc := NewService(db, repo, balanceRepo, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, mailer)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Apply(context.Background(), uuid.New().String(), applicantID.String(), ApplyRequest{
		LeaveType:   TypeNotify,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-01",
		Reason:      "offsite",
		ApproverIDs: []string{approverID.String()},
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_RejectsIneligibleApprover(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	applicantID := uuid.New()
	approverID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", ReportsTo: &approverID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: approverID, Username: "sam"}, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	_, err := svc.Apply(context.Background(), uuid.New().String(), applicantID.String(), ApplyRequest{
		LeaveType:   TypeCasual,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-01",
		Reason:      "errand",
		ApproverIDs: []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidApprovers)
}

func TestService_Apply_BadDateRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	_, err := svc.Apply(context.Background(), uuid.New().String(), uuid.New().String(), ApplyRequest{
		LeaveType: TypeCasual,
		StartDate: "2026-06-05",
		EndDate:   "2026-06-01",
		Reason:    "backwards",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
}

func TestService_Action_ApproveDebitsAndMarksAttendance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	applicantID := uuid.New()
	approverID := uuid.New()
	leaveID := uuid.New()

	pending := &LeaveRequest{
		ID:        leaveID,
		CompanyID: companyID,
		UserID:    applicantID,
		LeaveType: TypeSick,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	var updated *LeaveRequest
	repo := &fakeRepo{}
	repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*LeaveRequest, error) {
		return pending, nil
	}
	repo.isApproverFn = func(ctx context.Context, lid uuid.UUID, aid string) (bool, error) {
		return aid == approverID.String(), nil
	}
	repo.updateFn = func(ctx context.Context, l *LeaveRequest) error { updated = l; return nil }

	balance := &leavebalance.LeaveBalance{SickLeave: 5, CasualLeave: 1}
	var savedBalance *leavebalance.LeaveBalance
	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.findByUserForUpdateFn = func(ctx context.Context, cid, uid string) (*leavebalance.LeaveBalance, error) {
		return balance, nil
	}
	balanceRepo.updateFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
		savedBalance = b
		return nil
	}

	attRepo := &fakeAttendanceRepo{}
	svc := NewService(db, repo, balanceRepo, attRepo, &fakeNotificationRepo{}, &fakeMailer{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Action(context.Background(), companyID.String(), approverID.String(), leaveID.String(), "approve")
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	if assert.NotNil(t, resp.ActionBy) {
		assert.Equal(t, approverID.String(), *resp.ActionBy)
	}

	if assert.NotNil(t, savedBalance) {
		assert.Equal(t, 2, savedBalance.SickLeave)
		assert.Equal(t, 1, savedBalance.CasualLeave)
	}

	// One Leave record per day of the inclusive range.
	if assert.Len(t, attRepo.upserted, 3) {
		for i, rec := range attRepo.upserted {
			assert.Equal(t, attendance.StatusLeave, rec.Status)
			assert.Equal(t, applicantID, rec.UserID)
			assert.Equal(t, approverID, rec.MarkedBy)
			assert.Equal(t, time.Date(2026, time.June, 1+i, 0, 0, 0, 0, time.UTC), rec.Date)
		}
	}

	if assert.NotNil(t, updated) {
		assert.Equal(t, StatusApproved, updated.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Action_ApproveInsufficientBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	approverID := uuid.New()
	pending := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		LeaveType: TypeCasual,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	repo := &fakeRepo{}
	repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*LeaveRequest, error) {
		return pending, nil
	}
	repo.isApproverFn = func(ctx context.Context, lid uuid.UUID, aid string) (bool, error) {
		return true, nil
	}

	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.findByUserForUpdateFn = func(ctx context.Context, cid, uid string) (*leavebalance.LeaveBalance, error) {
		return &leavebalance.LeaveBalance{CasualLeave: 3}, nil
	}

	svc := NewService(db, repo, balanceRepo, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Action(context.Background(), uuid.New().String(), approverID.String(), pending.ID.String(), "approve")
	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Action_Reject(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	approverID := uuid.New()
	pending := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		LeaveType: TypeCasual,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}

	var updated *LeaveRequest
	repo := &fakeRepo{}
	repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*LeaveRequest, error) {
		return pending, nil
	}
	repo.isApproverFn = func(ctx context.Context, lid uuid.UUID, aid string) (bool, error) {
		return true, nil
	}
	repo.updateFn = func(ctx context.Context, l *LeaveRequest) error { updated = l; return nil }

	// No balance movement on reject.
	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.findByUserForUpdateFn = func(ctx context.Context, cid, uid string) (*leavebalance.LeaveBalance, error) {
		t.Fatal("balance consulted on reject")
		return nil, nil
	}

	attRepo := &fakeAttendanceRepo{}
	svc := NewService(db, repo, balanceRepo, attRepo, &fakeNotificationRepo{}, &fakeMailer{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Action(context.Background(), uuid.New().String(), approverID.String(), pending.ID.String(), "reject")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Empty(t, attRepo.upserted)
	if assert.NotNil(t, updated) {
		assert.Equal(t, StatusRejected, updated.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Action_NotAnApprover(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*LeaveRequest, error) {
		return &LeaveRequest{ID: uuid.New(), Status: StatusPending}, nil
	}
	repo.isApproverFn = func(ctx context.Context, lid uuid.UUID, aid string) (bool, error) {
		return false, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Action(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String(), "approve")
	assert.ErrorIs(t, err, leaveerrors.ErrNotAnApprover)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Action_AlreadyActioned(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*LeaveRequest, error) {
		return &LeaveRequest{ID: uuid.New(), Status: StatusApproved}, nil
	}
	repo.isApproverFn = func(ctx context.Context, lid uuid.UUID, aid string) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{}, &fakeAttendanceRepo{}, &fakeNotificationRepo{}, &fakeMailer{})
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Action(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String(), "approve")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_MailFailureDoesNotFailRequest(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	applicantID := uuid.New()
	approverID := uuid.New()

	repo := &fakeRepo{}
	repo.findApplicantRefFn = func(ctx context.Context, cid, uid string) (*ApplicantRef, error) {
		return &ApplicantRef{ID: applicantID, Username: "jordan", ReportsTo: &approverID}, nil
	}
	repo.findDirectManagerFn = func(ctx context.Context, cid string, mid uuid.UUID) (*CandidateRef, error) {
		return &CandidateRef{ID: approverID, Username: "sam"}, nil
	}
	repo.findEmailsByIDsFn = func(ctx context.Context, cid string, ids []uuid.UUID) ([]string, error) {
		return []string{"sam@acme.test"}, nil
	}
	repo.createFn = func(ctx context.Context, l *LeaveRequest, approverIDs []uuid.UUID) error { return nil }

	balanceRepo := &fakeBalanceRepo{}
	balanceRepo.getOrCreateFn = func(ctx context.Context, cid, uid uuid.UUID) (*leavebalance.LeaveBalance, error) {
		return &leavebalance.LeaveBalance{CasualLeave: 5}, nil
	}

	notifRepo := &fakeNotificationRepo{}
	svc := NewService(db, repo, balanceRepo, &fakeAttendanceRepo{}, notifRepo, &fakeMailer{err: assert.AnError})

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Apply(context.Background(), uuid.New().String(), applicantID.String(), ApplyRequest{
		LeaveType:   TypeCasual,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-01",
		Reason:      "errand",
		ApproverIDs: []string{approverID.String()},
	})
	assert.NoError(t, err)
	// In-app rows still land even when the mail channel is down.
	assert.Len(t, notifRepo.batches, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
