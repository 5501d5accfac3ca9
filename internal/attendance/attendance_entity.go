package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Status values stored verbatim in attendance_records.status.
const (
	StatusPresent    = "Present"
	StatusAbsent     = "Absent"
	StatusWFH        = "WFH"
	StatusLeave      = "Leave"
	StatusSecondLate = "2nd Late"
	StatusThirdLate  = "3rd Late"
	StatusHoliday    = "Holiday"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusWFH, StatusLeave,
		StatusSecondLate, StatusThirdLate, StatusHoliday:
		return true
	}
	return false
}

type Attendance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	LoginTime *string   `gorm:"type:varchar(5)" json:"login_time,omitempty"`
	MarkedBy  uuid.UUID `gorm:"type:uuid;not null" json:"marked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}
