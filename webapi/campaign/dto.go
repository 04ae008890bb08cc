package campaign

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
)

// CreateCampaignRequest is the request body for creating a campaign.
type CreateCampaignRequest struct {
	Name         string    `json:"name" validate:"required"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	ContractFee  float64   `json:"contract_fee" validate:"required,gt=0"`
	Currency     string    `json:"currency" validate:"omitempty,len=3,uppercase"`
	InterestRate float64   `json:"interest_rate" validate:"gte=0,lte=100"`
	Type         string    `json:"type" validate:"required,oneof=normal auction"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	LoanDuration int       `json:"loan_duration" validate:"required,gt=0"`
}

// CampaignDTO is the API representation of a campaign.
type CampaignDTO struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	ContractFee  float64   `json:"contract_fee"`
	TargetAmount float64   `json:"target_amount"`
	Currency     string    `json:"currency"`
	InterestRate float64   `json:"interest_rate"`
	Type         string    `json:"type"`
	Deadline     time.Time `json:"deadline"`
	LoanDuration int       `json:"loan_duration"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoanDTO is the API representation of a loan.
type LoanDTO struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	BorrowerID   string    `json:"borrower_id"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	InterestRate float64   `json:"interest_rate"`
	LoanDuration int       `json:"loan_duration"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToCampaignDTO maps the campaign aggregate to its API representation.
func ToCampaignDTO(c *campaign.Campaign) *CampaignDTO {
	return &CampaignDTO{
		ID:           c.ID.String(),
		OwnerID:      c.OwnerID.String(),
		Name:         c.Name,
		Amount:       c.Amount.AmountFloat(),
		ContractFee:  c.ContractFee.AmountFloat(),
		TargetAmount: c.TargetAmount.AmountFloat(),
		Currency:     string(c.Currency()),
		InterestRate: c.InterestRate,
		Type:         string(c.Type),
		Deadline:     c.Deadline,
		LoanDuration: c.LoanDuration,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

// ToLoanDTO maps a loan to its API representation.
func ToLoanDTO(l *campaign.Loan) *LoanDTO {
	return &LoanDTO{
		ID:           l.ID.String(),
		CampaignID:   l.CampaignID.String(),
		BorrowerID:   l.BorrowerID.String(),
		Amount:       l.Amount.AmountFloat(),
		Currency:     string(l.Amount.Currency()),
		InterestRate: l.InterestRate,
		LoanDuration: l.LoanDuration,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}
