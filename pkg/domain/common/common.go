// Package common holds errors and contracts shared across domain packages.
package common

import "errors"

var (
	// ErrInvalidCurrencyCode is returned when a currency code is malformed.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	// ErrUnsupportedCurrency is returned when a currency code is not registered.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Event is the marker interface for all domain events published on the bus.
type Event interface {
	// Type returns the event type name used for subscription routing.
	Type() string
}
