package team

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_teams_company_name,unique"`
	Name      string    `gorm:"type:varchar(50);not null;index:idx_teams_company_name,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Team) TableName() string {
	return "teams"
}
