// Package campaign contains the campaign aggregate: a funding round that
// collects investments toward a target amount and ends in exactly one of
// two terminal states.
package campaign

import (
	"errors"
	"time"

	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/common"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrCampaignNotFound is returned when a campaign cannot be found.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrCampaignNotActive is returned when an operation requires an active
	// campaign but the campaign has already reached a terminal status.
	ErrCampaignNotActive = errors.New("campaign is not active")

	// ErrNotFullyFunded is returned when finalization is attempted on a
	// campaign whose amount has not reached the target amount.
	ErrNotFullyFunded = errors.New("campaign not fully funded")

	// ErrLoanNotFound is returned when a campaign has no loan.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrInvalidInterestRate is returned when an interest rate is outside [0, 100].
	ErrInvalidInterestRate = errors.New("interest rate must be between 0 and 100")

	// ErrInvalidCampaignType is returned for an unknown campaign type.
	ErrInvalidCampaignType = errors.New("invalid campaign type")
)

// Status is the campaign lifecycle state. A campaign is created active and
// transitions to closed or cancelled exactly once; both are terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further status change is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// Type distinguishes normal campaigns from auction-style ones. Auction
// matching itself is not implemented; the type is stored for listing.
type Type string

const (
	TypeNormal  Type = "normal"
	TypeAuction Type = "auction"
)

// IsValid reports whether the campaign type is one of the closed set.
func (t Type) IsValid() bool {
	return t == TypeNormal || t == TypeAuction
}

// Campaign is the aggregate root for one funding round.
//
// Invariants:
//   - TargetAmount = Amount + ContractFee, fixed at creation.
//   - Status transitions: active -> closed | cancelled, exactly once.
//   - After a terminal transition no investments are accepted.
type Campaign struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Amount       money.Money
	ContractFee  money.Money
	TargetAmount money.Money
	InterestRate float64
	Type         Type
	Deadline     time.Time
	LoanDuration int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New validates the funding terms and returns an active Campaign with the
// target amount derived from amount plus contract fee.
func New(
	ownerID uuid.UUID,
	name string,
	amount, contractFee money.Money,
	interestRate float64,
	campaignType Type,
	deadline time.Time,
	loanDuration int,
) (*Campaign, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("ownerID is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	if !amount.IsPositive() || !contractFee.IsPositive() {
		return nil, errors.New("amount and contract fee must be positive")
	}
	if !amount.IsSameCurrency(contractFee) {
		return nil, common.ErrInvalidCurrencyCode
	}
	if interestRate < 0 || interestRate > 100 {
		return nil, ErrInvalidInterestRate
	}
	if !campaignType.IsValid() {
		return nil, ErrInvalidCampaignType
	}
	if loanDuration <= 0 {
		return nil, errors.New("loan duration must be positive")
	}
	target, err := amount.Add(contractFee)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Campaign{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		Amount:       amount,
		ContractFee:  contractFee,
		TargetAmount: target,
		InterestRate: interestRate,
		Type:         campaignType,
		Deadline:     deadline,
		LoanDuration: loanDuration,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewFromData hydrates a Campaign from raw data. Bypasses invariants;
// repository and test use only.
func NewFromData(
	id, ownerID uuid.UUID,
	name string,
	amount, contractFee, targetAmount money.Money,
	interestRate float64,
	campaignType Type,
	deadline time.Time,
	loanDuration int,
	status Status,
	created, updated time.Time,
) *Campaign {
	return &Campaign{
		ID:           id,
		OwnerID:      ownerID,
		Name:         name,
		Amount:       amount,
		ContractFee:  contractFee,
		TargetAmount: targetAmount,
		InterestRate: interestRate,
		Type:         campaignType,
		Deadline:     deadline,
		LoanDuration: loanDuration,
		Status:       status,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}

// Currency returns the campaign currency.
func (c *Campaign) Currency() currency.Code {
	return c.Amount.Currency()
}

// IsOwnedBy reports whether the given user owns the campaign.
func (c *Campaign) IsOwnedBy(userID uuid.UUID) bool {
	return c.OwnerID == userID
}

// IsFullyFunded reports whether the campaign amount has reached the target.
func (c *Campaign) IsFullyFunded() bool {
	greater, err := c.Amount.GreaterThan(c.TargetAmount)
	if err != nil {
		return false
	}
	return greater || c.Amount.Equals(c.TargetAmount)
}

// EvaluateClose decides the terminal outcome of a close request at the given
// time: a campaign past its deadline that has not reached the target is
// cancelled, anything else is closed. The decision is evaluated here, never
// stored.
func (c *Campaign) EvaluateClose(now time.Time) Status {
	if c.Deadline.Before(now) && !c.IsFullyFunded() {
		return StatusCancelled
	}
	return StatusClosed
}

// Close transitions the campaign to the given terminal status.
// A campaign that is already terminal cannot transition again.
func (c *Campaign) Close(to Status) error {
	if c.Status.IsTerminal() {
		return ErrCampaignNotActive
	}
	if !to.IsTerminal() {
		return errors.New("close target must be a terminal status")
	}
	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	return nil
}
