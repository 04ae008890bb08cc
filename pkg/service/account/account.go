// Package account provides business logic for investment account operations:
// top-ups, withdrawals, balance queries and the transaction log.
//
// Every mutation runs inside a unit-of-work transaction with the account row
// locked, so concurrent operations on the same account serialize on the
// balance instead of racing it.
package account

import (
	"context"
	"log/slog"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
)

// DefaultTransactionLimit is the number of transactions returned by the
// transaction listing when the caller does not specify one.
const DefaultTransactionLimit = 10

// Service provides account operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		logger: deps.Logger,
	}
}

// GetAccount returns the account of the given user.
func (s *Service) GetAccount(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		a, err = uow.Accounts().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// TopUp adds funds to the user's account and appends a deposit transaction.
func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, amount money.Money) (*account.Account, error) {
	logger := s.logger.With("userID", userID, "amount", amount.String())
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		a, err = uow.Accounts().GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err = a.TopUp(amount); err != nil {
			return err
		}
		if err = uow.Accounts().UpdateBalances(ctx, a); err != nil {
			return err
		}
		return appendTransaction(ctx, uow, a.ID, amount, account.TransactionDeposit)
	})
	if err != nil {
		logger.Error("top-up failed", "error", err)
		return nil, err
	}
	logger.Info("account topped up", "balance", a.Balance.String())
	return a, nil
}

// Withdraw removes funds from the user's account and appends a withdrawal
// transaction. Fails with account.ErrInsufficientFunds when the free balance
// cannot cover the amount; the balance never goes negative.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount money.Money) (*account.Account, error) {
	logger := s.logger.With("userID", userID, "amount", amount.String())
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		a, err = uow.Accounts().GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err = a.Withdraw(amount); err != nil {
			return err
		}
		if err = uow.Accounts().UpdateBalances(ctx, a); err != nil {
			return err
		}
		return appendTransaction(ctx, uow, a.ID, amount, account.TransactionWithdrawal)
	})
	if err != nil {
		logger.Error("withdrawal failed", "error", err)
		return nil, err
	}
	logger.Info("funds withdrawn", "balance", a.Balance.String())
	return a, nil
}

// ListTransactions returns the latest transactions of the user's account,
// newest first.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*account.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	var txs []*account.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := uow.Accounts().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		txs, err = uow.Transactions().ListByAccount(ctx, a.ID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// appendTransaction adds one record to the append-only transaction log.
// Shared by the account, investment and campaign services so every balance
// change is logged uniformly.
func appendTransaction(
	ctx context.Context,
	uow repository.UnitOfWork,
	accountID uuid.UUID,
	amount money.Money,
	kind account.TransactionType,
) error {
	t, err := account.NewTransaction(accountID, amount, kind)
	if err != nil {
		return err
	}
	return uow.Transactions().Create(ctx, t)
}

// AppendTransaction exposes the transaction log append for sibling services
// operating in the same unit of work.
func AppendTransaction(
	ctx context.Context,
	uow repository.UnitOfWork,
	accountID uuid.UUID,
	amount money.Money,
	kind account.TransactionType,
) error {
	return appendTransaction(ctx, uow, accountID, amount, kind)
}
