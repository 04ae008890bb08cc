// Package transaction provides the GORM-backed transaction log repository.
// Records are append-only: there is no update or delete path.
package transaction

import (
	"context"

	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a transaction repository bound to the given session.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, t *account.Transaction) error {
	m := Transaction{
		ID:        t.ID,
		AccountID: t.AccountID,
		Amount:    t.Amount.Amount(),
		Currency:  t.Amount.Currency().String(),
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *repo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*account.Transaction, error) {
	var models []Transaction
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*account.Transaction, 0, len(models))
	for i := range models {
		m := &models[i]
		result = append(result, account.NewTransactionFromData(
			m.ID,
			m.AccountID,
			money.NewFromData(m.Amount, m.Currency),
			account.TransactionType(m.Type),
			m.CreatedAt,
		))
	}
	return result, nil
}
