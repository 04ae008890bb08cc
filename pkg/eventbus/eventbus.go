// Package eventbus defines the contract for publishing domain events.
// The ledger publishes notification events only after the enclosing
// transaction commits; a bus failure never rolls back a committed mutation.
package eventbus

import (
	"context"

	"github.com/amirasaad/pledgepool/pkg/domain/common"
)

// HandlerFunc handles a single event.
type HandlerFunc func(ctx context.Context, event common.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	// Register subscribes a handler to an event type.
	Register(eventType string, handler HandlerFunc)
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, event common.Event) error
}
