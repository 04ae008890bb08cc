package account

import (
	"errors"
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

// TransactionType identifies the kind of balance-affecting event.
// Reservations and releases are logged like deposits and withdrawals so the
// transaction log is a complete audit trail of every balance change.
type TransactionType string

const (
	TransactionDeposit     TransactionType = "deposit"
	TransactionWithdrawal  TransactionType = "withdrawal"
	TransactionReservation TransactionType = "reservation"
	TransactionRelease     TransactionType = "release"
)

// IsValid reports whether the transaction type is one of the closed set.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionReservation, TransactionRelease:
		return true
	}
	return false
}

// Transaction is one append-only record of a balance-affecting event on an
// account. Transactions are never updated or deleted.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Amount    money.Money
	Type      TransactionType
	CreatedAt time.Time
}

// NewTransaction creates a transaction record for the given account.
func NewTransaction(accountID uuid.UUID, amount money.Money, kind TransactionType) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountMustBePositive
	}
	if !kind.IsValid() {
		return nil, errors.New("invalid transaction type")
	}
	return &Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewTransactionFromData hydrates a Transaction from raw data. Bypasses
// invariants; repository and test use only.
func NewTransactionFromData(
	id, accountID uuid.UUID,
	amount money.Money,
	kind TransactionType,
	created time.Time,
) *Transaction {
	return &Transaction{
		ID:        id,
		AccountID: accountID,
		Amount:    amount,
		Type:      kind,
		CreatedAt: created,
	}
}
