package tracksheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
	tracksheeterrors "go-hrms/internal/tracksheet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=tracksheet_service.go -destination=mock/tracksheet_service_mock.go -package=mock
type Service interface {
	MonthBoard(ctx context.Context, companyID, actorID, actorRole, userID string, year, month int) (BoardResponse, error)
	AddWork(ctx context.Context, companyID, actorID string, req AddWorkRequest) (WorkItemResponse, error)
	AssignTask(ctx context.Context, companyID, actorID string, req AssignTaskRequest) (TaskItemResponse, error)
	UpdateWorkStatus(ctx context.Context, companyID, actorID, itemID, status string) (WorkItemResponse, error)
	UpdateTaskStatus(ctx context.Context, companyID, actorID, itemID, status string) (TaskItemResponse, error)
	ArchiveTask(ctx context.Context, companyID, actorID, itemID string) error
	Outbox(ctx context.Context, companyID, actorID string) ([]TaskItemResponse, error)
}

type service struct {
	repo             Repository
	notificationRepo notification.Repository
	logger           *zap.Logger
}

func NewService(repo Repository, notificationRepo notification.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("tracksheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tracksheet.service")
	}
	return &service{repo: repo, notificationRepo: notificationRepo, logger: l}
}

func (s *service) MonthBoard(ctx context.Context, companyID, actorID, actorRole, userID string, year, month int) (BoardResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return BoardResponse{}, tracksheeterrors.ErrInvalidMonth
	}

	owner, err := s.repo.FindOwnerRef(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BoardResponse{}, tracksheeterrors.ErrUserNotFound
		}
		return BoardResponse{}, err
	}

	// Work logs are private to the owner, their direct manager and HR.
	// Assigned tasks are board-public.
	canViewWork := actorID == userID ||
		actorRole == rbac.RoleHR ||
		(owner.ReportsTo != nil && owner.ReportsTo.String() == actorID)

	m := time.Month(month)
	sheets, err := s.repo.FindSheetsByUserAndMonth(ctx, companyID, userID, year, m)
	if err != nil {
		return BoardResponse{}, err
	}

	sheetIDs := make([]uuid.UUID, 0, len(sheets))
	sheetByDate := make(map[string]uuid.UUID, len(sheets))
	for _, sheet := range sheets {
		sheetIDs = append(sheetIDs, sheet.ID)
		sheetByDate[sheet.Date.Format("2006-01-02")] = sheet.ID
	}

	workBySheet := map[uuid.UUID][]WorkItemResponse{}
	if canViewWork {
		workItems, err := s.repo.FindWorkItemsBySheets(ctx, sheetIDs)
		if err != nil {
			return BoardResponse{}, err
		}
		for _, item := range workItems {
			workBySheet[item.TrackSheetID] = append(workBySheet[item.TrackSheetID], WorkItemResponse{
				ID:     item.ID.String(),
				Task:   item.Task,
				Status: item.Status,
			})
		}
	}

	taskItems, err := s.repo.FindTaskItemsBySheets(ctx, sheetIDs)
	if err != nil {
		return BoardResponse{}, err
	}
	tasksBySheet := map[uuid.UUID][]TaskItemResponse{}
	for _, item := range taskItems {
		tasksBySheet[item.TrackSheetID] = append(tasksBySheet[item.TrackSheetID], TaskItemResponse{
			ID:         item.ID.String(),
			Task:       item.Task,
			AssignedBy: item.AssignedBy.String(),
			Status:     item.Status,
		})
	}

	first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	numDays := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]*BoardCell, 0, numDays+6)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, nil)
	}
	for day := 1; day <= numDays; day++ {
		current := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
		key := current.Format("2006-01-02")

		cell := &BoardCell{
			Day:       day,
			Date:      key,
			DayName:   current.Weekday().String(),
			WorkItems: []WorkItemResponse{},
			TaskItems: []TaskItemResponse{},
		}
		if sheetID, ok := sheetByDate[key]; ok {
			cell.WorkItems = append(cell.WorkItems, workBySheet[sheetID]...)
			cell.TaskItems = append(cell.TaskItems, tasksBySheet[sheetID]...)
		}
		cell.DayStatus = summarizeDay(cell.WorkItems)
		cells = append(cells, cell)
	}

	return BoardResponse{
		UserID:      userID,
		Year:        year,
		Month:       month,
		CanViewWork: canViewWork,
		Days:        cells,
	}, nil
}

// summarizeDay rolls the day's work logs into one label: Completed
// when every log is done, In Progress when any log is running,
// Pending otherwise.
func summarizeDay(work []WorkItemResponse) string {
	if len(work) == 0 {
		return StatusPending
	}
	allDone := true
	anyRunning := false
	for _, w := range work {
		if w.Status != StatusCompleted {
			allDone = false
		}
		if w.Status == StatusInProgress {
			anyRunning = true
		}
	}
	switch {
	case allDone:
		return StatusCompleted
	case anyRunning:
		return StatusInProgress
	default:
		return StatusPending
	}
}

func (s *service) AddWork(ctx context.Context, companyID, actorID string, req AddWorkRequest) (WorkItemResponse, error) {
	if actorID != req.UserID {
		return WorkItemResponse{}, tracksheeterrors.ErrNotOwner
	}

	sheet, err := s.sheetFor(ctx, companyID, req.UserID, req.Date)
	if err != nil {
		return WorkItemResponse{}, err
	}

	item := &WorkItem{
		ID:           uuid.New(),
		TrackSheetID: sheet.ID,
		Task:         req.Task,
		Status:       StatusPending,
	}
	if err := s.repo.CreateWorkItem(ctx, item); err != nil {
		return WorkItemResponse{}, err
	}
	return WorkItemResponse{ID: item.ID.String(), Task: item.Task, Status: item.Status}, nil
}

func (s *service) AssignTask(ctx context.Context, companyID, actorID string, req AssignTaskRequest) (TaskItemResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TaskItemResponse{}, tracksheeterrors.ErrUserNotFound
	}
	actor, err := s.repo.FindOwnerRef(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskItemResponse{}, tracksheeterrors.ErrUserNotFound
		}
		return TaskItemResponse{}, err
	}

	sheet, err := s.sheetFor(ctx, companyID, req.UserID, req.Date)
	if err != nil {
		return TaskItemResponse{}, err
	}

	item := &TaskItem{
		ID:           uuid.New(),
		TrackSheetID: sheet.ID,
		Task:         req.Task,
		AssignedBy:   actorUUID,
		Status:       StatusPending,
	}
	if err := s.repo.CreateTaskItem(ctx, item); err != nil {
		return TaskItemResponse{}, err
	}

	n := &notification.Notification{
		ID:          uuid.New(),
		CompanyID:   sheet.CompanyID,
		RecipientID: sheet.UserID,
		SenderID:    actorUUID,
		Title:       fmt.Sprintf("New Task Assigned: %s", req.Date),
		Message:     fmt.Sprintf("Task: %s\nBy: %s", req.Task, actor.Username),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("task notification not written", zap.Error(err), zap.String("task_id", item.ID.String()))
	}

	return TaskItemResponse{
		ID:         item.ID.String(),
		Task:       item.Task,
		AssignedBy: item.AssignedBy.String(),
		Status:     item.Status,
	}, nil
}

// sheetFor loads or lazily creates the (user, date) sheet, verifying
// the user belongs to the company first.
func (s *service) sheetFor(ctx context.Context, companyID, userID, dateStr string) (*TrackSheet, error) {
	owner, err := s.repo.FindOwnerRef(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tracksheeterrors.ErrUserNotFound
		}
		return nil, err
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, tracksheeterrors.ErrUserNotFound
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return nil, tracksheeterrors.ErrInvalidMonth
	}

	sheet := &TrackSheet{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		UserID:    owner.ID,
		Date:      date,
	}
	if err := s.repo.GetOrCreateSheet(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (s *service) UpdateWorkStatus(ctx context.Context, companyID, actorID, itemID, status string) (WorkItemResponse, error) {
	if !ValidItemStatus(status) {
		return WorkItemResponse{}, tracksheeterrors.ErrInvalidStatus
	}

	item, sheet, err := s.repo.FindWorkItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkItemResponse{}, tracksheeterrors.ErrItemNotFound
		}
		return WorkItemResponse{}, err
	}
	if sheet.CompanyID.String() != companyID {
		return WorkItemResponse{}, tracksheeterrors.ErrItemNotFound
	}
	if sheet.UserID.String() != actorID {
		return WorkItemResponse{}, tracksheeterrors.ErrNotOwner
	}

	item.Status = status
	if err := s.repo.UpdateWorkItem(ctx, item); err != nil {
		return WorkItemResponse{}, err
	}
	return WorkItemResponse{ID: item.ID.String(), Task: item.Task, Status: item.Status}, nil
}

func (s *service) UpdateTaskStatus(ctx context.Context, companyID, actorID, itemID, status string) (TaskItemResponse, error) {
	if !ValidItemStatus(status) {
		return TaskItemResponse{}, tracksheeterrors.ErrInvalidStatus
	}

	item, sheet, err := s.repo.FindTaskItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskItemResponse{}, tracksheeterrors.ErrItemNotFound
		}
		return TaskItemResponse{}, err
	}
	if sheet.CompanyID.String() != companyID {
		return TaskItemResponse{}, tracksheeterrors.ErrItemNotFound
	}
	// Assignee and assigner share ownership of the status.
	if sheet.UserID.String() != actorID && item.AssignedBy.String() != actorID {
		return TaskItemResponse{}, tracksheeterrors.ErrNotParty
	}

	item.Status = status
	if err := s.repo.UpdateTaskItem(ctx, item); err != nil {
		return TaskItemResponse{}, err
	}
	return TaskItemResponse{
		ID:         item.ID.String(),
		Task:       item.Task,
		AssignedBy: item.AssignedBy.String(),
		Status:     item.Status,
	}, nil
}

// ArchiveTask hides the task from the assigner's outbox. The
// assignee's copy is untouched and no data is deleted.
func (s *service) ArchiveTask(ctx context.Context, companyID, actorID, itemID string) error {
	item, sheet, err := s.repo.FindTaskItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tracksheeterrors.ErrItemNotFound
		}
		return err
	}
	if sheet.CompanyID.String() != companyID {
		return tracksheeterrors.ErrItemNotFound
	}
	if item.AssignedBy.String() != actorID {
		return tracksheeterrors.ErrNotAssigner
	}

	item.SenderArchived = true
	return s.repo.UpdateTaskItem(ctx, item)
}

func (s *service) Outbox(ctx context.Context, companyID, actorID string) ([]TaskItemResponse, error) {
	items, err := s.repo.FindAssignedByUser(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, TaskItemResponse{
			ID:         item.ID.String(),
			Task:       item.Task,
			AssignedBy: item.AssignedBy.String(),
			Status:     item.Status,
		})
	}
	return out, nil
}
