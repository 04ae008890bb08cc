// Package events defines the notification events the core publishes after a
// ledger mutation commits. Each event carries enough data to render a
// message; delivery is asynchronous and best-effort.
package events

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

// Event type names used for subscription routing.
const (
	TypeCampaignClosed      = "CampaignClosed"
	TypeCampaignFinalized   = "CampaignFinalized"
	TypeInvestmentCancelled = "InvestmentCancelled"
)

// CampaignClosed is published after a campaign reaches a terminal status.
type CampaignClosed struct {
	CampaignID   uuid.UUID
	OwnerID      uuid.UUID
	CampaignName string
	Outcome      string // closed or cancelled
	Amount       money.Money
	OccurredAt   time.Time
}

// Type implements common.Event.
func (CampaignClosed) Type() string { return TypeCampaignClosed }

// CampaignFinalized is published once per recipient after a fully funded
// campaign converts into a loan: once for the owner and once per investor.
type CampaignFinalized struct {
	CampaignID   uuid.UUID
	LoanID       uuid.UUID
	RecipientID  uuid.UUID
	CampaignName string
	Amount       money.Money
	InterestRate float64
	LoanDuration int
	OccurredAt   time.Time
}

// Type implements common.Event.
func (CampaignFinalized) Type() string { return TypeCampaignFinalized }

// InvestmentCancelled is published after an investment is cancelled and its
// reserved funds released.
type InvestmentCancelled struct {
	InvestmentID uuid.UUID
	CampaignID   uuid.UUID
	InvestorID   uuid.UUID
	Amount       money.Money
	OccurredAt   time.Time
}

// Type implements common.Event.
func (InvestmentCancelled) Type() string { return TypeInvestmentCancelled }
