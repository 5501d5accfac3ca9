package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-hrms/internal/leavebalance"
	"go-hrms/internal/rbac"
	usererrors "go-hrms/internal/user/errors"
)

type fakeRepo struct {
	createFn               func(ctx context.Context, u *User) error
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*User, error)
	findByUsernameFn       func(ctx context.Context, username string) (*User, error)
	findAllByCompanyFn     func(ctx context.Context, companyID string, approved bool) ([]User, error)
	findSubordinatesFn     func(ctx context.Context, companyID, managerID string, teamID *string) ([]User, error)
	updateFn               func(ctx context.Context, u *User) error
	deleteFn               func(ctx context.Context, companyID, id string) error
	teamBelongsToCompanyFn func(ctx context.Context, companyID, teamID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository              { return f }
func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*User, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return f.findByUsernameFn(ctx, username)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, approved bool) ([]User, error) {
	return f.findAllByCompanyFn(ctx, companyID, approved)
}
func (f *fakeRepo) FindSubordinates(ctx context.Context, companyID, managerID string, teamID *string) ([]User, error) {
	return f.findSubordinatesFn(ctx, companyID, managerID, teamID)
}
func (f *fakeRepo) Update(ctx context.Context, u *User) error { return f.updateFn(ctx, u) }
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}
func (f *fakeRepo) TeamBelongsToCompany(ctx context.Context, companyID, teamID string) (bool, error) {
	if f.teamBelongsToCompanyFn != nil {
		return f.teamBelongsToCompanyFn(ctx, companyID, teamID)
	}
	return true, nil
}

type fakeBalanceRepo struct {
	ensured []uuid.UUID
}

func (f *fakeBalanceRepo) WithTx(tx *sql.Tx) leavebalance.Repository { return f }
func (f *fakeBalanceRepo) GetOrCreate(ctx context.Context, companyID, userID uuid.UUID) (*leavebalance.LeaveBalance, error) {
	f.ensured = append(f.ensured, userID)
	return &leavebalance.LeaveBalance{CompanyID: companyID, UserID: userID}, nil
}
func (f *fakeBalanceRepo) FindByUser(ctx context.Context, companyID, userID string) (*leavebalance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBalanceRepo) FindByUserForUpdate(ctx context.Context, companyID, userID string) (*leavebalance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBalanceRepo) Update(ctx context.Context, b *leavebalance.LeaveBalance) error { return nil }
func (f *fakeBalanceRepo) UserReportsTo(ctx context.Context, companyID, userID, managerID string) (bool, error) {
	return false, nil
}

func TestService_Approve_Onboards(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	userID := uuid.New()
	managerID := uuid.New()
	teamID := uuid.New()

	users := map[string]*User{
		userID.String():    {ID: userID, CompanyID: companyID, Username: "jordan", Role: rbac.RoleEmployee},
		managerID.String(): {ID: managerID, CompanyID: companyID, Username: "sam", Role: rbac.RoleManager, IsApproved: true},
	}

	var saved *User
	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	repo.updateFn = func(ctx context.Context, u *User) error { saved = u; return nil }

	balanceRepo := &fakeBalanceRepo{}
	svc := NewService(db, repo, balanceRepo)

	teamStr := teamID.String()
	managerStr := managerID.String()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(context.Background(), companyID.String(), uuid.New().String(), userID.String(), ApproveUserRequest{
		Role:        rbac.RoleEmployee,
		Section:     "Backside",
		Designation: "Backend Developer",
		TeamID:      &teamStr,
		ReportsTo:   &managerStr,
	})
	assert.NoError(t, err)
	assert.True(t, resp.IsApproved)
	if assert.NotNil(t, saved) {
		assert.True(t, saved.IsApproved)
		assert.Equal(t, "Backend Developer", saved.Designation)
		assert.Equal(t, &teamID, saved.TeamID)
		assert.Equal(t, &managerID, saved.ReportsTo)
	}
	// Onboarding ensures the leave balance row exists.
	assert.Equal(t, []uuid.UUID{userID}, balanceRepo.ensured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_AlreadyApproved(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New()
	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		return &User{ID: userID, IsApproved: true}, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{})
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), uuid.New().String(), uuid.New().String(), userID.String(), ApproveUserRequest{
		Role:        rbac.RoleEmployee,
		Section:     "Backside",
		Designation: "Backend Developer",
	})
	assert.ErrorIs(t, err, usererrors.ErrAlreadyApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_SelfManagerRejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New()
	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		return &User{ID: userID, Username: "jordan"}, nil
	}

	svc := NewService(db, repo, &fakeBalanceRepo{})
	self := userID.String()

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), uuid.New().String(), uuid.New().String(), userID.String(), UpdateUserRequest{
		Section:     "Backside",
		Designation: "Backend Developer",
		ReportsTo:   &self,
	})
	assert.ErrorIs(t, err, usererrors.ErrReportingCycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_ReportingCycleDetected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	aID := uuid.New()
	bID := uuid.New()
	cID := uuid.New()

	// c reports to b, b reports to a. Pointing a at c closes a loop.
	users := map[string]*User{
		aID.String(): {ID: aID, CompanyID: companyID, Username: "a"},
		bID.String(): {ID: bID, CompanyID: companyID, Username: "b", ReportsTo: &aID},
		cID.String(): {ID: cID, CompanyID: companyID, Username: "c", ReportsTo: &bID},
	}

	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, &fakeBalanceRepo{})
	target := cID.String()

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), companyID.String(), uuid.New().String(), aID.String(), UpdateUserRequest{
		Section:     "Management",
		Designation: "Director of Ops",
		ReportsTo:   &target,
	})
	assert.ErrorIs(t, err, usererrors.ErrReportingCycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_CannotChangeOwnRole(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New()
	var saved *User
	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		return &User{ID: userID, Username: "jordan", Role: rbac.RoleEmployee}, nil
	}
	repo.updateFn = func(ctx context.Context, u *User) error { saved = u; return nil }

	svc := NewService(db, repo, &fakeBalanceRepo{})
	hr := rbac.RoleHR

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Update(context.Background(), uuid.New().String(), userID.String(), userID.String(), UpdateUserRequest{
		Section:     "Backside",
		Designation: "Backend Developer",
		Role:        &hr,
	})
	assert.NoError(t, err)
	if assert.NotNil(t, saved) {
		assert.Equal(t, rbac.RoleEmployee, saved.Role)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_Self(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New()
	svc := NewService(db, &fakeRepo{}, &fakeBalanceRepo{})
	err := svc.Delete(context.Background(), uuid.New().String(), userID.String(), userID.String())
	assert.ErrorIs(t, err, usererrors.ErrCannotDeleteSelf)
}

func TestService_UpdatePayroll(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New()
	var saved *User
	repo := &fakeRepo{}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*User, error) {
		return &User{ID: userID, Username: "jordan"}, nil
	}
	repo.updateFn = func(ctx context.Context, u *User) error { saved = u; return nil }

	svc := NewService(db, repo, &fakeBalanceRepo{})
	resp, err := svc.UpdatePayroll(context.Background(), uuid.New().String(), userID.String(), UpdatePayrollRequest{
		MonthlySalary:   "3000",
		ESIPercentage:   "1",
		ProfessionalTax: "50",
	})
	assert.NoError(t, err)
	assert.Equal(t, "3000.00", resp.MonthlySalary)
	assert.Equal(t, "1.00", resp.ESIPercentage)
	assert.Equal(t, "50.00", resp.ProfessionalTax)
	assert.NotNil(t, saved)
}

func TestService_UpdatePayroll_RejectsNegative(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeBalanceRepo{})
	_, err := svc.UpdatePayroll(context.Background(), uuid.New().String(), uuid.New().String(), UpdatePayrollRequest{
		MonthlySalary:   "-3000",
		ESIPercentage:   "1",
		ProfessionalTax: "50",
	})
	assert.ErrorIs(t, err, usererrors.ErrInvalidAmount)
}
