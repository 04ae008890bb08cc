// Package campaign provides the GORM-backed campaign repository.
package campaign

import (
	"context"
	"errors"

	domain "github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

// New creates a campaign repository bound to the given session.
func New(db *gorm.DB) repository.CampaignRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Create(mapDomainToModel(c)).Error
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate locks the campaign row so concurrent close/cancel/finalize
// calls on the same campaign serialize.
func (r *repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repo) get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Campaign, error) {
	var m Campaign
	if err := tx.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

func (r *repo) UpdateStatus(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).
		Model(&Campaign{}).
		Where("id = ?", c.ID).
		Update("status", string(c.Status)).Error
}

func (r *repo) List(ctx context.Context, limit, offset int) ([]*domain.Campaign, error) {
	var models []Campaign
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Campaign, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func mapDomainToModel(c *domain.Campaign) *Campaign {
	return &Campaign{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Name:         c.Name,
		Amount:       c.Amount.Amount(),
		ContractFee:  c.ContractFee.Amount(),
		TargetAmount: c.TargetAmount.Amount(),
		Currency:     c.Currency().String(),
		InterestRate: c.InterestRate,
		Type:         string(c.Type),
		Deadline:     c.Deadline,
		LoanDuration: c.LoanDuration,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func mapModelToDomain(m *Campaign) *domain.Campaign {
	return domain.NewFromData(
		m.ID,
		m.OwnerID,
		m.Name,
		money.NewFromData(m.Amount, m.Currency),
		money.NewFromData(m.ContractFee, m.Currency),
		money.NewFromData(m.TargetAmount, m.Currency),
		m.InterestRate,
		domain.Type(m.Type),
		m.Deadline,
		m.LoanDuration,
		domain.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
