package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeCasual = "Casual"
	TypeSick   = "Sick"
	TypeNotify = "Notify"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type LeaveRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	LeaveType string     `gorm:"type:varchar(20);not null" json:"leave_type"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time  `gorm:"type:date;not null" json:"end_date"`
	Reason    string     `gorm:"type:text;not null" json:"reason"`
	Status    string     `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`
	ActionBy  *uuid.UUID `gorm:"type:uuid" json:"action_by,omitempty"`
	AppliedOn time.Time  `gorm:"autoCreateTime" json:"applied_on"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// DaysRequested counts the inclusive calendar span of the request.
func (l *LeaveRequest) DaysRequested() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// LeaveApprover is the frozen approver snapshot taken at submit time.
// Later org changes never touch these rows.
type LeaveApprover struct {
	LeaveRequestID uuid.UUID `gorm:"type:uuid;primaryKey" json:"leave_request_id"`
	ApproverID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"approver_id"`
}

func (LeaveApprover) TableName() string {
	return "leave_approvers"
}
