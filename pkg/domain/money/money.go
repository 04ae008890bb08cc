// Package money provides the Money value object used by all ledger
// operations. Amounts are stored as integers in the smallest currency unit
// so that repeated reserve/release cycles cannot accumulate rounding drift.
package money

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/common"
)

// Amount is a monetary amount in the smallest currency unit (e.g. cents).
type Amount = int64

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit.
//   - Currency code must be a valid, supported ISO 4217 code.
//   - All arithmetic requires matching currencies.
type Money struct {
	amount   Amount
	currency currency.Code
}

// New creates a Money value from a float amount in the main currency unit.
// The amount must not carry more decimal places than the currency allows.
func New(amount float64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidFormat(string(code)) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	smallest, err := toSmallestUnit(amount, code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: code}, nil
}

// NewFromSmallestUnit creates a Money value directly from the smallest
// currency unit. Used for hydration from the data store.
func NewFromSmallestUnit(amount int64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidFormat(string(code)) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: code}, nil
}

// NewFromData creates a Money value without validation. Only for hydrating
// rows that were validated when written.
func NewFromData(amount int64, code string) Money {
	return Money{amount: amount, currency: currency.Code(code)}
}

// Zero returns a zero Money value in the given currency.
func Zero(code currency.Code) Money {
	if code == "" {
		code = currency.DefaultCurrency
	}
	return Money{amount: 0, currency: code}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount { return m.amount }

// AmountFloat returns the amount in the main currency unit.
func (m Money) AmountFloat() float64 {
	meta, err := currency.Get(m.currency)
	if err != nil {
		return float64(m.amount) / math.Pow10(currency.DefaultDecimals)
	}
	return float64(m.amount) / math.Pow10(meta.Decimals)
}

// Currency returns the currency code.
func (m Money) Currency() currency.Code { return m.currency }

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Equals reports whether two Money values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// GreaterThan reports whether m > other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, common.ErrInvalidCurrencyCode
	}
	return m.amount > other.amount, nil
}

// LessThan reports whether m < other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, common.ErrInvalidCurrencyCode
	}
	return m.amount < other.amount, nil
}

// IsSameCurrency reports whether both values carry the same currency code.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// String returns a human-readable representation, e.g. "100.00 EUR".
func (m Money) String() string {
	meta, err := currency.Get(m.currency)
	if err != nil {
		return fmt.Sprintf("%d %s", m.amount, m.currency)
	}
	return fmt.Sprintf("%.*f %s", meta.Decimals, m.AmountFloat(), m.currency)
}

// toSmallestUnit converts a float64 amount to the smallest currency unit
// using big.Rat to avoid floating-point precision issues.
func toSmallestUnit(amount float64, code currency.Code) (int64, error) {
	meta, err := currency.Get(code)
	if err != nil {
		return 0, err
	}
	amountStr := fmt.Sprintf("%.10f", amount)
	parts := strings.Split(amountStr, ".")
	if len(parts) > 1 {
		decimals := strings.TrimRight(parts[1], "0")
		if len(decimals) > meta.Decimals {
			return 0, fmt.Errorf("amount has more than %d decimal places", meta.Decimals)
		}
	}

	amountStr = fmt.Sprintf("%.*f", meta.Decimals, amount)
	amountRat, ok := new(big.Rat).SetString(amountStr)
	if !ok {
		return 0, fmt.Errorf("invalid amount format: %f", amount)
	}

	multiplier := math.Pow10(meta.Decimals)
	smallestRat := new(big.Rat).Mul(amountRat, big.NewRat(int64(multiplier), 1))
	if !smallestRat.IsInt() {
		return 0, fmt.Errorf("amount has more than %d decimal places", meta.Decimals)
	}
	num := smallestRat.Num()
	if !num.IsInt64() {
		return 0, fmt.Errorf("amount exceeds maximum safe integer value")
	}
	return num.Int64(), nil
}
