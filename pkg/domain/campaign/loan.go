package campaign

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

// LoanStatus is the loan lifecycle state. Loans are created active at
// campaign finalization; repayment and amortization live outside this core.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
)

// Loan is the record a fully funded campaign converts into. Exactly one loan
// exists per finalized campaign, carrying the campaign's funding terms.
type Loan struct {
	ID           uuid.UUID
	CampaignID   uuid.UUID
	BorrowerID   uuid.UUID
	Amount       money.Money
	InterestRate float64
	LoanDuration int
	Status       LoanStatus
	CreatedAt    time.Time
}

// NewLoan creates the loan for a finalized campaign.
func NewLoan(c *Campaign) *Loan {
	return &Loan{
		ID:           uuid.New(),
		CampaignID:   c.ID,
		BorrowerID:   c.OwnerID,
		Amount:       c.Amount,
		InterestRate: c.InterestRate,
		LoanDuration: c.LoanDuration,
		Status:       LoanStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
}
