// Package investment contains the investment aggregate: one investor's
// committed amount toward a campaign, with its own cancellable lifecycle.
package investment

import (
	"errors"
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrInvestmentNotFound is returned when an investment cannot be found.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrAlreadyCancelled is returned when cancelling an investment that is
	// already cancelled.
	ErrAlreadyCancelled = errors.New("investment already cancelled")

	// ErrInvalidState is returned when a transition is not permitted from
	// the investment's current status.
	ErrInvalidState = errors.New("investment cannot be changed in current state")

	// ErrInvalidInterestRate is returned when an interest rate is outside [0, 100].
	ErrInvalidInterestRate = errors.New("interest rate must be between 0 and 100")
)

// Status is the investment lifecycle state.
//
// Transitions: reserved -> cancelled (terminal), reserved -> active (at
// campaign finalization, terminal). No transition leaves active or cancelled.
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Investment is the aggregate root for one invest action.
//
// Invariant: while the status is reserved or active, the investor's account
// holds Amount inside its reserved amount attributable to this investment;
// once cancelled, the amount has been released back to the free balance.
type Investment struct {
	ID           uuid.UUID
	InvestorID   uuid.UUID
	CampaignID   uuid.UUID
	Amount       money.Money
	InterestRate float64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New validates the terms and returns an Investment in the reserved state.
// The caller must reserve the amount on the investor's account in the same
// transaction.
func New(investorID, campaignID uuid.UUID, amount money.Money, interestRate float64) (*Investment, error) {
	if investorID == uuid.Nil {
		return nil, errors.New("investorID is required")
	}
	if campaignID == uuid.Nil {
		return nil, errors.New("campaignID is required")
	}
	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if interestRate < 0 || interestRate > 100 {
		return nil, ErrInvalidInterestRate
	}
	now := time.Now().UTC()
	return &Investment{
		ID:           uuid.New(),
		InvestorID:   investorID,
		CampaignID:   campaignID,
		Amount:       amount,
		InterestRate: interestRate,
		Status:       StatusReserved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewFromData hydrates an Investment from raw data. Bypasses invariants;
// repository and test use only.
func NewFromData(
	id, investorID, campaignID uuid.UUID,
	amount money.Money,
	interestRate float64,
	status Status,
	created, updated time.Time,
) *Investment {
	return &Investment{
		ID:           id,
		InvestorID:   investorID,
		CampaignID:   campaignID,
		Amount:       amount,
		InterestRate: interestRate,
		Status:       status,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}

// IsOwnedBy reports whether the given user made the investment.
func (i *Investment) IsOwnedBy(userID uuid.UUID) bool {
	return i.InvestorID == userID
}

// Cancel transitions the investment to cancelled. Only a reserved investment
// can be cancelled; re-cancelling is rejected so the paired release can never
// run twice.
func (i *Investment) Cancel() error {
	switch i.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusReserved:
		i.Status = StatusCancelled
		i.UpdatedAt = time.Now().UTC()
		return nil
	default:
		return ErrInvalidState
	}
}

// Activate transitions a reserved investment to active as part of campaign
// finalization. Reserved funds stay reserved; they back the issued loan.
func (i *Investment) Activate() error {
	if i.Status != StatusReserved {
		return ErrInvalidState
	}
	i.Status = StatusActive
	i.UpdatedAt = time.Now().UTC()
	return nil
}
