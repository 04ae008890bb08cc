package account

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/domain/account"
)

// TopUpRequest is the request body for topping up an account.
type TopUpRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// WithdrawRequest is the request body for withdrawing from an account.
type WithdrawRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// AccountDTO is the API representation of an account.
type AccountDTO struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Balance  float64 `json:"balance"`
	Reserved float64 `json:"reserved"`
	Currency string  `json:"currency"`
}

// TransactionDTO is the API representation of a ledger transaction.
type TransactionDTO struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAccountDTO maps the account aggregate to its API representation.
func ToAccountDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		ID:       a.ID.String(),
		UserID:   a.UserID.String(),
		Balance:  a.Balance.AmountFloat(),
		Reserved: a.Reserved.AmountFloat(),
		Currency: string(a.Currency()),
	}
}

// ToTransactionDTO maps a ledger transaction to its API representation.
func ToTransactionDTO(t *account.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:        t.ID.String(),
		AccountID: t.AccountID.String(),
		Amount:    t.Amount.AmountFloat(),
		Currency:  string(t.Amount.Currency()),
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt,
	}
}
