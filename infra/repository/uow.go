// Package repository provides the GORM-backed UnitOfWork implementation.
package repository

import (
	"context"

	infraaccount "github.com/amirasaad/pledgepool/infra/repository/account"
	infracampaign "github.com/amirasaad/pledgepool/infra/repository/campaign"
	infrainvestment "github.com/amirasaad/pledgepool/infra/repository/investment"
	infraloan "github.com/amirasaad/pledgepool/infra/repository/loan"
	infratransaction "github.com/amirasaad/pledgepool/infra/repository/transaction"
	infrauser "github.com/amirasaad/pledgepool/infra/repository/user"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. All repositories returned from one UoW instance share the
// same session, so multi-aggregate mutations are atomic.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db, tx: db}
}

// Do runs fn inside a database transaction, providing a UoW whose
// repositories are bound to that transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// Accounts returns the account repository bound to the current session.
func (u *UoW) Accounts() repository.AccountRepository {
	return infraaccount.New(u.tx)
}

// Transactions returns the transaction log repository bound to the current session.
func (u *UoW) Transactions() repository.TransactionRepository {
	return infratransaction.New(u.tx)
}

// Campaigns returns the campaign repository bound to the current session.
func (u *UoW) Campaigns() repository.CampaignRepository {
	return infracampaign.New(u.tx)
}

// Investments returns the investment repository bound to the current session.
func (u *UoW) Investments() repository.InvestmentRepository {
	return infrainvestment.New(u.tx)
}

// Loans returns the loan repository bound to the current session.
func (u *UoW) Loans() repository.LoanRepository {
	return infraloan.New(u.tx)
}

// Users returns the user repository bound to the current session.
func (u *UoW) Users() repository.UserRepository {
	return infrauser.New(u.tx)
}

var _ repository.UnitOfWork = (*UoW)(nil)
