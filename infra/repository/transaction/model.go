package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents an append-only transaction log record.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount    int64     `gorm:"not null"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'EUR'"`
	Type      string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
