package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"type:varchar(150);not null"`
	HREmail string    `gorm:"type:varchar(255);not null;uniqueIndex"`

	// Per-tenant outbound mail channel. Empty host means the system
	// default sender is used.
	SMTPHost     string `gorm:"type:varchar(255)"`
	SMTPPort     int    `gorm:"type:int;default:587"`
	SMTPUsername string `gorm:"type:varchar(255)"`
	SMTPPassword string `gorm:"type:varchar(255)"`
	SMTPUseTLS   bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}

type PublicHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_holidays_company_date,unique"`
	Date      time.Time `gorm:"type:date;not null;index:idx_holidays_company_date,unique"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
}

func (PublicHoliday) TableName() string {
	return "public_holidays"
}
