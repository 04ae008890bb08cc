package campaign

import (
	"time"

	"github.com/google/uuid"
)

// Campaign represents a campaign record in the database.
type Campaign struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"size:255;not null"`
	Amount       int64     `gorm:"not null"`
	ContractFee  int64     `gorm:"not null"`
	TargetAmount int64     `gorm:"not null"`
	Currency     string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	InterestRate float64   `gorm:"not null"`
	Type         string    `gorm:"type:varchar(16);not null;default:'normal'"`
	Deadline     time.Time `gorm:"not null"`
	LoanDuration int       `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Campaign model.
func (Campaign) TableName() string {
	return "campaigns"
}
