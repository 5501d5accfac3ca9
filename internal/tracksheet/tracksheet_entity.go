package tracksheet

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

func ValidItemStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TrackSheet is one user's board for one day, created lazily on the
// first write.
type TrackSheet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tracksheets_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_tracksheets_user_date" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func (TrackSheet) TableName() string {
	return "track_sheets"
}

// WorkItem is a self-authored work log line, mutable only by the
// sheet's owner.
type WorkItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TrackSheetID uuid.UUID `gorm:"type:uuid;not null;index" json:"track_sheet_id"`
	Task         string    `gorm:"type:varchar(255);not null" json:"task"`
	Status       string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WorkItem) TableName() string {
	return "work_items"
}

// TaskItem is assigned by another user. Its status is shared between
// assigner and assignee; sender_archived only hides the row from the
// assigner's outbox.
type TaskItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TrackSheetID   uuid.UUID `gorm:"type:uuid;not null;index" json:"track_sheet_id"`
	Task           string    `gorm:"type:varchar(255);not null" json:"task"`
	AssignedBy     uuid.UUID `gorm:"type:uuid;not null" json:"assigned_by"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	SenderArchived bool      `gorm:"not null;default:false" json:"sender_archived"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (TaskItem) TableName() string {
	return "task_items"
}
