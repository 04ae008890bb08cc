// Package investment provides the GORM-backed investment repository.
package investment

import (
	"context"
	"errors"

	domain "github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

// New creates an investment repository bound to the given session.
func New(db *gorm.DB) repository.InvestmentRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, i *domain.Investment) error {
	return r.db.WithContext(ctx).Create(mapDomainToModel(i)).Error
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate locks the investment row so concurrent cancel calls on the
// same investment cannot both observe the reserved status.
func (r *repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repo) get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Investment, error) {
	var m Investment
	if err := tx.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

func (r *repo) UpdateStatus(ctx context.Context, i *domain.Investment) error {
	return r.db.WithContext(ctx).
		Model(&Investment{}).
		Where("id = ?", i.ID).
		Update("status", string(i.Status)).Error
}

func (r *repo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*domain.Investment, error) {
	var models []Investment
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapModelsToDomain(models), nil
}

func (r *repo) ListByInvestor(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]*domain.Investment, error) {
	var models []Investment
	if err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapModelsToDomain(models), nil
}

func mapDomainToModel(i *domain.Investment) *Investment {
	return &Investment{
		ID:           i.ID,
		InvestorID:   i.InvestorID,
		CampaignID:   i.CampaignID,
		Amount:       i.Amount.Amount(),
		Currency:     i.Amount.Currency().String(),
		InterestRate: i.InterestRate,
		Status:       string(i.Status),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func mapModelToDomain(m *Investment) *domain.Investment {
	return domain.NewFromData(
		m.ID,
		m.InvestorID,
		m.CampaignID,
		money.NewFromData(m.Amount, m.Currency),
		m.InterestRate,
		domain.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func mapModelsToDomain(models []Investment) []*domain.Investment {
	result := make([]*domain.Investment, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result
}
