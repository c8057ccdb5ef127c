// Package eventstore defines the contract for the append-only event log.
// Every aggregate owns one stream, keyed by aggregate type and id; the
// expected-version check on append is the system's single serialization
// point.
package eventstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// Aggregate type prefixes for stream ids.
const (
	AggregateAccount  = "account"
	AggregateTransfer = "transfer"
)

// ErrVersionConflict is returned when an append's expected version no longer
// matches the stream; the caller recovers by reloading and re-deciding.
var ErrVersionConflict = errors.New("event stream version conflict")

// Store is an append-only, per-aggregate-stream event log.
type Store interface {
	// AppendToStream appends events to the stream iff the stream currently
	// holds exactly expectedVersion events; otherwise it returns
	// ErrVersionConflict. expectedVersion 0 creates the stream.
	AppendToStream(ctx context.Context, streamID string, expectedVersion int, evts ...events.Event) error

	// ReadStream returns the full stream in append order plus its current
	// version (the number of events). A missing stream is not an error: it
	// yields an empty slice and version 0.
	ReadStream(ctx context.Context, streamID string) ([]events.Event, int, error)
}

// StreamID builds the storage key for one aggregate's stream.
func StreamID(aggregateType, id string) string {
	return fmt.Sprintf("%s:%s", aggregateType, id)
}
