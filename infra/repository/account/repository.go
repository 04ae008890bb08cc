// Package account provides the GORM-backed account repository.
package account

import (
	"context"
	"errors"

	"github.com/amirasaad/pledgepool/pkg/currency"
	domain "github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session.
func New(db *gorm.DB) repository.AccountRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).Create(mapDomainToModel(a)).Error
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m)
}

func (r *repo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return r.getByUser(ctx, r.db, userID)
}

// GetByUserForUpdate locks the account row until the enclosing transaction
// ends, so concurrent reserves serialize on the balance.
func (r *repo) GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return r.getByUser(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *repo) getByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Account, error) {
	var m Account
	if err := tx.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m)
}

func (r *repo) UpdateBalances(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"balance":  a.Balance.Amount(),
			"reserved": a.Reserved.Amount(),
		}).Error
}

func mapDomainToModel(a *domain.Account) *Account {
	return &Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance.Amount(),
		Reserved:  a.Reserved.Amount(),
		Currency:  a.Currency().String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func mapModelToDomain(m *Account) (*domain.Account, error) {
	return domain.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithBalance(m.Balance).
		WithReserved(m.Reserved).
		WithCurrency(currency.Code(m.Currency)).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}
