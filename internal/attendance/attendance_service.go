package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/company"
	"go-hrms/internal/payroll"
	"go-hrms/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Month(ctx context.Context, companyID, actorID, actorRole, userID string, year, month int) (MonthResponse, error)
	Mark(ctx context.Context, companyID, actorID, actorRole string, req MarkRequest) (MarkResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	companyRepo company.Repository
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, companyRepo company.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, companyRepo: companyRepo, logger: l}
}

// CanManage reports whether the actor may mark or inspect the target's
// attendance: HR always, the direct manager always, and a Manager or
// TL over an Employee on their own team.
func CanManage(actorID, actorRole string, actor, target *UserRef) bool {
	if actorRole == rbac.RoleHR {
		return true
	}
	if target.ReportsTo != nil && target.ReportsTo.String() == actorID {
		return true
	}
	if actor != nil && actor.TeamID != nil && target.TeamID != nil &&
		*actor.TeamID == *target.TeamID &&
		(actorRole == rbac.RoleManager || actorRole == rbac.RoleTL) &&
		target.Role == rbac.RoleEmployee {
		return true
	}
	return false
}

func (s *service) Month(ctx context.Context, companyID, actorID, actorRole, userID string, year, month int) (MonthResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return MonthResponse{}, attendanceerrors.ErrInvalidMonth
	}

	target, err := s.repo.FindUserRef(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthResponse{}, attendanceerrors.ErrUserNotFound
		}
		return MonthResponse{}, err
	}

	isManager := actorID == userID
	if !isManager {
		isManager, err = s.actorManages(ctx, companyID, actorID, actorRole, target)
		if err != nil {
			return MonthResponse{}, err
		}
	}
	if !isManager {
		return MonthResponse{}, attendanceerrors.ErrNotManager
	}

	m := time.Month(month)
	records, err := s.repo.FindByUserAndMonth(ctx, companyID, userID, year, m)
	if err != nil {
		return MonthResponse{}, err
	}
	byDate := make(map[string]*Attendance, len(records))
	for i := range records {
		byDate[records[i].Date.Format("2006-01-02")] = &records[i]
	}

	holidayRows, err := s.companyRepo.FindHolidaysByMonth(ctx, companyID, year, m)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return MonthResponse{}, err
	}
	holidays := make(map[string]struct{}, len(holidayRows))
	for _, h := range holidayRows {
		holidays[h.Date.Format("2006-01-02")] = struct{}{}
	}

	numDays := daysInMonth(year, m)
	cells := make([]*DayCell, 0, numDays+6)
	for i := 0; i < startWeekdayOffset(year, m); i++ {
		cells = append(cells, nil)
	}

	stats := MonthStats{TotalDays: numDays}
	for day := 1; day <= numDays; day++ {
		current := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
		key := current.Format("2006-01-02")
		record := byDate[key]
		status := ResolveStatus(current, record, holidays)

		switch status {
		case StatusAbsent:
			stats.Absent++
		case StatusLeave:
			stats.Leave++
		case StatusWFH:
			stats.WFH++
			stats.Present++
		case StatusPresent:
			stats.Present++
		case StatusHoliday:
			stats.Holiday++
		case StatusSecondLate:
			stats.SecondLate++
		case StatusThirdLate:
			stats.ThirdLate++
		}

		cell := &DayCell{
			Day:     day,
			Date:    key,
			DayName: current.Weekday().String(),
			Status:  status,
		}
		if record != nil {
			cell.LoginTime = record.LoginTime
		}
		cells = append(cells, cell)
	}

	resp := MonthResponse{
		UserID: userID,
		Year:   year,
		Month:  month,
		Days:   cells,
		Stats:  stats,
	}
	if payroll.Applicable(target.MonthlySalary) {
		breakdown := payroll.Derive(payroll.Input{
			BaseSalary:      target.MonthlySalary,
			ESIPercentage:   target.ESIPercentage,
			ProfessionalTax: target.ProfessionalTax,
			NumDays:         numDays,
			Absent:          stats.Absent,
			ThirdLate:       stats.ThirdLate,
			SecondLate:      stats.SecondLate,
		})
		r := payroll.MapToResponse(target.MonthlySalary, breakdown)
		resp.Salary = &r
	}
	return resp, nil
}

func (s *service) Mark(ctx context.Context, companyID, actorID, actorRole string, req MarkRequest) (MarkResponse, error) {
	if !ValidStatus(req.Status) {
		return MarkResponse{}, attendanceerrors.ErrInvalidStatus
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return MarkResponse{}, attendanceerrors.ErrInvalidMonth
	}

	target, err := s.repo.FindUserRef(ctx, companyID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MarkResponse{}, attendanceerrors.ErrUserNotFound
		}
		return MarkResponse{}, err
	}

	isManager, err := s.actorManages(ctx, companyID, actorID, actorRole, target)
	if err != nil {
		return MarkResponse{}, err
	}
	if !isManager {
		return MarkResponse{}, attendanceerrors.ErrNotManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MarkResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	resp := MarkResponse{
		UserID:    req.UserID,
		Date:      req.Date,
		Status:    req.Status,
		LoginTime: req.LoginTime,
	}

	// A 3rd Late subsumes the 2nd Late it escalated from: the latest
	// prior 2nd Late of the same month is reset to Present so the
	// half-day cut is not double-counted.
	if req.Status == StatusThirdLate {
		prior, err := qtx.FindLatestPriorSecondLate(ctx, companyID, req.UserID, date)
		switch {
		case err == nil:
			if err := qtx.UpdateStatus(ctx, prior.ID, StatusPresent); err != nil {
				return MarkResponse{}, err
			}
			reset := prior.Date.Format("2006-01-02")
			resp.ResetSecondLate = &reset
			s.logger.Info("second late reset by third late",
				zap.String("user_id", req.UserID),
				zap.String("reset_date", reset),
				zap.String("marked_date", req.Date))
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return MarkResponse{}, err
		}
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return MarkResponse{}, attendanceerrors.ErrUserNotFound
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return MarkResponse{}, attendanceerrors.ErrUserNotFound
	}

	record := &Attendance{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		UserID:    target.ID,
		Date:      date,
		Status:    req.Status,
		LoginTime: req.LoginTime,
		MarkedBy:  actorUUID,
	}
	if err := qtx.Upsert(ctx, record); err != nil {
		return MarkResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MarkResponse{}, fmt.Errorf("commit attendance mark: %w", err)
	}
	return resp, nil
}

func (s *service) actorManages(ctx context.Context, companyID, actorID, actorRole string, target *UserRef) (bool, error) {
	if actorRole == rbac.RoleHR {
		return true, nil
	}
	actor, err := s.repo.FindUserRef(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return CanManage(actorID, actorRole, actor, target), nil
}
