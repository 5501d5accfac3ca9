package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeCasual = "Casual"
	TypeSick   = "Sick"
)

type LeaveBalance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	CasualLeave int `gorm:"type:int;not null;default:0;check:casual_leave >= 0"`
	SickLeave   int `gorm:"type:int;not null;default:0;check:sick_leave >= 0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Remaining returns the counter for the given leave type.
func (b *LeaveBalance) Remaining(leaveType string) int {
	switch leaveType {
	case TypeCasual:
		return b.CasualLeave
	case TypeSick:
		return b.SickLeave
	}
	return 0
}

// Debit subtracts days from the counter for the given leave type.
// Callers must re-check sufficiency first.
func (b *LeaveBalance) Debit(leaveType string, days int) {
	switch leaveType {
	case TypeCasual:
		b.CasualLeave -= days
	case TypeSick:
		b.SickLeave -= days
	}
}
