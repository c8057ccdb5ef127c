// Package events defines the immutable domain events produced by the account
// and transfer aggregates. Events are append-only facts: each one carries the
// id of the aggregate that produced it plus everything the transfer saga needs
// for correlation, so subscribers never have to read back into a stream.
package events

// Event is the contract all domain events satisfy.
type Event interface {
	// Type identifies the event for bus routing and envelope decoding.
	Type() EventType
	// AggregateID is the id of the aggregate the event belongs to. Events
	// that exist only for saga correlation (rejections, not-found) report
	// the transfer id they correlate on.
	AggregateID() string
}
