// Package account contains the investment account aggregate: the free
// balance / reserved amount pair for one user, and the operations that move
// funds between them.
package account

import (
	"errors"
	"time"

	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/common"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/google/uuid"
)

var (
	// ErrAmountMustBePositive is returned when an operation amount is not positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when the free balance cannot cover a
	// withdrawal or reservation.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")


	// ErrCurrencyMismatch is returned when an operation amount does not match
	// the account currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrLedgerInvariantViolation indicates ledger corruption: a release or
	// credit amount exceeds what the account holds. It is never caused by
	// user input and must abort the enclosing transaction.
	ErrLedgerInvariantViolation = errors.New("ledger invariant violation")
)

// Account is the aggregate root for one user's investment account.
//
// Invariants:
//   - Balance and Reserved are never negative.
//   - Reserved equals the sum of the owner's investments in the reserved or
//     active state.
//   - Balance and Reserved always share one currency.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   money.Money
	Reserved  money.Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	userID    uuid.UUID
	balance   int64
	reserved  int64
	currency  currency.Code
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with a fresh ID and the default currency.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		currency:  currency.DefaultCurrency,
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the account ID. Used for hydration.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithCurrency sets the account currency. Defaults to the platform currency.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the free balance in the smallest currency unit.
// For hydration and test setup only.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithReserved sets the reserved amount in the smallest currency unit.
// For hydration and test setup only.
func (b *Builder) WithReserved(reserved int64) *Builder {
	b.reserved = reserved
	return b
}

// WithCreatedAt sets the creation timestamp. For hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. For hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !currency.IsValidFormat(string(b.currency)) {
		return nil, common.ErrInvalidCurrencyCode
	}
	if !currency.IsSupported(b.currency) {
		return nil, common.ErrUnsupportedCurrency
	}
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if b.balance < 0 || b.reserved < 0 {
		return nil, ErrLedgerInvariantViolation
	}
	bal, err := money.NewFromSmallestUnit(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	res, err := money.NewFromSmallestUnit(b.reserved, b.currency)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:        b.id,
		UserID:    b.userID,
		Balance:   bal,
		Reserved:  res,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// Currency returns the account currency.
func (a *Account) Currency() currency.Code {
	return a.Balance.Currency()
}

func (a *Account) validateAmount(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	return nil
}

func (a *Account) hasEnoughBalance(amount money.Money) (bool, error) {
	greater, err := a.Balance.GreaterThan(amount)
	if err != nil {
		return false, err
	}
	return greater || a.Balance.Equals(amount), nil
}

// TopUp adds funds to the free balance.
func (a *Account) TopUp(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = newBalance
	return nil
}

// Withdraw removes funds from the free balance. The balance never goes
// negative; an amount above the balance is ErrInsufficientFunds.
func (a *Account) Withdraw(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	enough, err := a.hasEnoughBalance(amount)
	if err != nil {
		return err
	}
	if !enough {
		return ErrInsufficientFunds
	}
	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	a.Balance = newBalance
	return nil
}

// Reserve moves funds from the free balance into the reserved amount.
// Used exclusively by investment creation; the caller must run the
// check-then-reserve under the same transaction as the balance read.
func (a *Account) Reserve(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	enough, err := a.hasEnoughBalance(amount)
	if err != nil {
		return err
	}
	if !enough {
		return ErrInsufficientFunds
	}
	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	newReserved, err := a.Reserved.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = newBalance
	a.Reserved = newReserved
	return nil
}

// Release moves funds from the reserved amount back to the free balance.
// A release amount above the reserved amount indicates ledger corruption
// and returns ErrLedgerInvariantViolation, which must abort the enclosing
// transaction.
func (a *Account) Release(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	greater, err := amount.GreaterThan(a.Reserved)
	if err != nil {
		return err
	}
	if greater {
		return ErrLedgerInvariantViolation
	}
	newReserved, err := a.Reserved.Subtract(amount)
	if err != nil {
		return err
	}
	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Reserved = newReserved
	a.Balance = newBalance
	return nil
}

// Credit adds a campaign payout to the free balance. Same ledger effect as
// TopUp; kept separate so payouts are explicit at call sites.
func (a *Account) Credit(amount money.Money) error {
	return a.TopUp(amount)
}
