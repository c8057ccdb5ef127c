// Package eventbus defines the contract for publishing domain events to
// subscribers. Delivery is at-least-once; subscribers (the saga above all)
// must tolerate redelivery. The only ordering guarantee implementations have
// to provide is per-source-stream order.
package eventbus

import (
	"context"

	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// HandlerFunc handles one delivered event.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus delivers published events to all handlers registered for their type.
type Bus interface {
	// Register adds a handler for a specific event type. Registration is
	// not safe to interleave with Emit on every implementation; wire all
	// handlers at startup.
	Register(eventType events.EventType, handler HandlerFunc)

	// Emit publishes an event to all handlers registered for its type.
	Emit(ctx context.Context, e events.Event) error
}
