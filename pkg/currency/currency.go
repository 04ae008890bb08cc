// Package currency provides currency codes and metadata for the platform.
// Currency is a tag on monetary values; the platform does not convert
// between currencies.
package currency

import (
	"errors"
	"unicode"
)

// Code is an ISO 4217 currency code (3 uppercase letters).
type Code string

// Common currency codes.
const (
	EUR Code = "EUR"
	USD Code = "USD"
	GBP Code = "GBP"
	CHF Code = "CHF"
	JPY Code = "JPY"
)

// DefaultCurrency is the platform default for new accounts and campaigns.
const DefaultCurrency = EUR

// DefaultDecimals is the number of decimal places used when a currency is
// not registered.
const DefaultDecimals = 2

// ErrUnsupportedCurrency is returned when a currency code is not registered.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

var currencies = map[Code]Meta{
	EUR: {Decimals: 2, Symbol: "€"},
	USD: {Decimals: 2, Symbol: "$"},
	GBP: {Decimals: 2, Symbol: "£"},
	CHF: {Decimals: 2, Symbol: "CHF"},
	JPY: {Decimals: 0, Symbol: "¥"},
}

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// IsValidFormat reports whether the code looks like an ISO 4217 code:
// exactly 3 uppercase ASCII letters.
func IsValidFormat(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// IsSupported reports whether the code is registered.
func IsSupported(code Code) bool {
	_, ok := currencies[code]
	return ok
}

// Get returns the metadata for the given code.
func Get(code Code) (Meta, error) {
	meta, ok := currencies[code]
	if !ok {
		return Meta{}, ErrUnsupportedCurrency
	}
	return meta, nil
}
