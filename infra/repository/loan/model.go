package loan

import (
	"time"

	"github.com/google/uuid"
)

// Loan represents a loan record created at campaign finalization.
type Loan struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampaignID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	BorrowerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount       int64     `gorm:"not null"`
	Currency     string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	InterestRate float64   `gorm:"not null"`
	LoanDuration int       `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the Loan model.
func (Loan) TableName() string {
	return "loans"
}
