package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SectionFrontside  = "Frontside"
	SectionBackside   = "Backside"
	SectionManagement = "Management"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeamID    *uuid.UUID `gorm:"type:uuid;index"`

	// Reporting manager adjacency. Nullable; forms a forest of
	// manager chains. Cycle-checked at assignment time.
	ReportsTo *uuid.UUID `gorm:"type:uuid;index"`

	Username string `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email    string `gorm:"type:varchar(255);not null"`
	Password string `gorm:"type:varchar(255);not null"`

	Role        string `gorm:"type:varchar(20);not null;default:'Employee'"`
	Section     string `gorm:"type:varchar(20)"`
	Designation string `gorm:"type:varchar(100)"`
	IsApproved  bool   `gorm:"not null;default:false"`

	// Payroll attributes consumed by the attendance month view.
	MonthlySalary   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ESIPercentage   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ProfessionalTax decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
