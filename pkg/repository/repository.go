// Package repository defines the persistence contracts for the ledger core.
// Implementations must guarantee that all repositories obtained from one
// UnitOfWork share a single database transaction.
package repository

import (
	"context"

	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/google/uuid"
)

// AccountRepository provides access to investment accounts. The ForUpdate
// variants take a row-level lock so a concurrent reserve cannot observe a
// stale balance; they are only valid inside a UnitOfWork transaction.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	// UpdateBalances persists the balance/reserved pair of the aggregate.
	UpdateBalances(ctx context.Context, a *account.Account) error
}

// TransactionRepository is the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, t *account.Transaction) error
	// ListByAccount returns the latest transactions, newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*account.Transaction, error)
}

// CampaignRepository provides access to campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *campaign.Campaign) error
	Get(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	UpdateStatus(ctx context.Context, c *campaign.Campaign) error
	List(ctx context.Context, limit, offset int) ([]*campaign.Campaign, error)
}

// InvestmentRepository provides access to investments.
type InvestmentRepository interface {
	Create(ctx context.Context, i *investment.Investment) error
	Get(ctx context.Context, id uuid.UUID) (*investment.Investment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*investment.Investment, error)
	UpdateStatus(ctx context.Context, i *investment.Investment) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*investment.Investment, error)
	ListByInvestor(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]*investment.Investment, error)
}

// LoanRepository provides access to loans.
type LoanRepository interface {
	Create(ctx context.Context, l *campaign.Loan) error
	GetByCampaign(ctx context.Context, campaignID uuid.UUID) (*campaign.Loan, error)
}

// UserRepository provides access to users.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
