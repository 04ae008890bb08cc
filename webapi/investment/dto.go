package investment

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/investment"
)

// InvestRequest is the request body for investing in a campaign.
type InvestRequest struct {
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,lte=100"`
}

// InvestmentDTO is the API representation of an investment.
type InvestmentDTO struct {
	ID           string    `json:"id"`
	InvestorID   string    `json:"investor_id"`
	CampaignID   string    `json:"campaign_id"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	InterestRate float64   `json:"interest_rate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToInvestmentDTO maps an investment to its API representation.
func ToInvestmentDTO(i *investment.Investment) *InvestmentDTO {
	return &InvestmentDTO{
		ID:           i.ID.String(),
		InvestorID:   i.InvestorID.String(),
		CampaignID:   i.CampaignID.String(),
		Amount:       i.Amount.AmountFloat(),
		Currency:     string(i.Amount.Currency()),
		InterestRate: i.InterestRate,
		Status:       string(i.Status),
		CreatedAt:    i.CreatedAt,
	}
}
