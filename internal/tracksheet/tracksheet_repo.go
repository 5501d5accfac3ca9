package tracksheet

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnerRef is the slice of the users table the board needs for its
// visibility check.
type OwnerRef struct {
	ID        uuid.UUID
	Username  string
	ReportsTo *uuid.UUID
}

//go:generate mockgen -source=tracksheet_repo.go -destination=mock/tracksheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetOrCreateSheet(ctx context.Context, sheet *TrackSheet) error
	FindSheetsByUserAndMonth(ctx context.Context, companyID, userID string, year int, month time.Month) ([]TrackSheet, error)
	FindWorkItemsBySheets(ctx context.Context, sheetIDs []uuid.UUID) ([]WorkItem, error)
	FindTaskItemsBySheets(ctx context.Context, sheetIDs []uuid.UUID) ([]TaskItem, error)
	CreateWorkItem(ctx context.Context, item *WorkItem) error
	CreateTaskItem(ctx context.Context, item *TaskItem) error
	FindWorkItem(ctx context.Context, id string) (*WorkItem, *TrackSheet, error)
	FindTaskItem(ctx context.Context, id string) (*TaskItem, *TrackSheet, error)
	UpdateWorkItem(ctx context.Context, item *WorkItem) error
	UpdateTaskItem(ctx context.Context, item *TaskItem) error
	FindAssignedByUser(ctx context.Context, companyID, assignerID string) ([]TaskItem, error)
	FindOwnerRef(ctx context.Context, companyID, userID string) (*OwnerRef, error)
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

func (r *repository) GetOrCreateSheet(ctx context.Context, sheet *TrackSheet) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(sheet)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).
			Where("user_id = ?", sheet.UserID).
			Where("date = ?", sheet.Date.Format("2006-01-02")).
			First(sheet).Error
	}
	return nil
}

func (r *repository) FindSheetsByUserAndMonth(ctx context.Context, companyID, userID string, year int, month time.Month) ([]TrackSheet, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var sheets []TrackSheet
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Find(&sheets).Error
	return sheets, err
}

func (r *repository) FindWorkItemsBySheets(ctx context.Context, sheetIDs []uuid.UUID) ([]WorkItem, error) {
	if len(sheetIDs) == 0 {
		return nil, nil
	}
	var items []WorkItem
	err := r.db.WithContext(ctx).
		Where("track_sheet_id IN ?", sheetIDs).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindTaskItemsBySheets(ctx context.Context, sheetIDs []uuid.UUID) ([]TaskItem, error) {
	if len(sheetIDs) == 0 {
		return nil, nil
	}
	var items []TaskItem
	err := r.db.WithContext(ctx).
		Where("track_sheet_id IN ?", sheetIDs).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) CreateWorkItem(ctx context.Context, item *WorkItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) CreateTaskItem(ctx context.Context, item *TaskItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindWorkItem(ctx context.Context, id string) (*WorkItem, *TrackSheet, error) {
	var item WorkItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var sheet TrackSheet
	if err := r.db.WithContext(ctx).First(&sheet, "id = ?", item.TrackSheetID).Error; err != nil {
		return nil, nil, err
	}
	return &item, &sheet, nil
}

func (r *repository) FindTaskItem(ctx context.Context, id string) (*TaskItem, *TrackSheet, error) {
	var item TaskItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var sheet TrackSheet
	if err := r.db.WithContext(ctx).First(&sheet, "id = ?", item.TrackSheetID).Error; err != nil {
		return nil, nil, err
	}
	return &item, &sheet, nil
}

func (r *repository) UpdateWorkItem(ctx context.Context, item *WorkItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) UpdateTaskItem(ctx context.Context, item *TaskItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindAssignedByUser is the assigner's outbox: tasks they handed out
// and have not archived.
func (r *repository) FindAssignedByUser(ctx context.Context, companyID, assignerID string) ([]TaskItem, error) {
	var items []TaskItem
	err := r.db.WithContext(ctx).
		Joins("JOIN track_sheets ts ON ts.id = task_items.track_sheet_id").
		Where("ts.company_id = ?", companyID).
		Where("task_items.assigned_by = ?", assignerID).
		Where("task_items.sender_archived = ?", false).
		Order("task_items.created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindOwnerRef(ctx context.Context, companyID, userID string) (*OwnerRef, error) {
	var ref OwnerRef
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id", "username", "reports_to").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Where("id = ?", userID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
