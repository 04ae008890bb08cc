package investment

import (
	"time"

	"github.com/google/uuid"
)

// Investment represents an investment record in the database.
type Investment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	InvestorID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CampaignID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount       int64     `gorm:"not null"`
	Currency     string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	InterestRate float64   `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null;default:'reserved'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Investment model.
func (Investment) TableName() string {
	return "investments"
}
