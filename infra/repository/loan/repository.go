// Package loan provides the GORM-backed loan repository.
package loan

import (
	"context"
	"errors"

	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a loan repository bound to the given session.
func New(db *gorm.DB) repository.LoanRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, l *campaign.Loan) error {
	m := Loan{
		ID:           l.ID,
		CampaignID:   l.CampaignID,
		BorrowerID:   l.BorrowerID,
		Amount:       l.Amount.Amount(),
		Currency:     l.Amount.Currency().String(),
		InterestRate: l.InterestRate,
		LoanDuration: l.LoanDuration,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *repo) GetByCampaign(ctx context.Context, campaignID uuid.UUID) (*campaign.Loan, error) {
	var m Loan
	if err := r.db.WithContext(ctx).First(&m, "campaign_id = ?", campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, campaign.ErrLoanNotFound
		}
		return nil, err
	}
	return &campaign.Loan{
		ID:           m.ID,
		CampaignID:   m.CampaignID,
		BorrowerID:   m.BorrowerID,
		Amount:       money.NewFromData(m.Amount, m.Currency),
		InterestRate: m.InterestRate,
		LoanDuration: m.LoanDuration,
		Status:       campaign.LoanStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}, nil
}
