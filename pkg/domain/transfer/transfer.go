// Package transfer implements the event-sourced transfer aggregate. A
// transfer records the lifecycle of one funds movement between two accounts;
// the actual balance changes live in the account streams.
package transfer

import (
	"fmt"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// Status is the lifecycle state of a transfer.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Transfer is the replayed state of one transfer. The zero value is the
// state of a transfer that does not exist yet.
type Transfer struct {
	ID                   string
	SourceAccountID      string
	DestinationAccountID string
	Amount               int64
	Status               Status
}

// Exists reports whether a creation event has been replayed into the state.
func (t Transfer) Exists() bool {
	return t.ID != ""
}

// Terminal reports whether the transfer reached COMPLETED or FAILED. Status
// transitions are monotonic: once terminal, no further events are accepted.
func (t Transfer) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// Replay folds a stream of events into transfer state, starting from the
// zero value.
func Replay(history []events.Event) Transfer {
	var t Transfer
	for _, e := range history {
		t = Evolve(t, e)
	}
	return t
}

// Evolve applies a single event to the state and returns the new state.
func Evolve(t Transfer, e events.Event) Transfer {
	switch ev := e.(type) {
	case events.TransferCreatedEvent:
		t.ID = ev.TransferID
		t.SourceAccountID = ev.SourceAccountID
		t.DestinationAccountID = ev.DestinationAccountID
		t.Amount = ev.Amount
		t.Status = StatusStarted
	case events.TransferCompletedEvent:
		t.Status = StatusCompleted
	case events.TransferFailedEvent:
		t.Status = StatusFailed
	}
	return t
}

// Decide validates a command against the current state and returns the events
// to append. Marking an already-terminal transfer is an event-free no-op so
// that redelivered saga commands stay harmless.
func Decide(t Transfer, cmd commands.Command) ([]events.Event, error) {
	switch c := cmd.(type) {
	case commands.CreateTransfer:
		if t.Exists() {
			return nil, common.ErrTransferAlreadyExists
		}
		if c.Amount <= 0 {
			return nil, common.ErrAmountMustBePositive
		}
		if c.SourceAccountID == "" || c.DestinationAccountID == "" {
			return nil, fmt.Errorf("transfer aggregate: source and destination account ids are required")
		}
		return []events.Event{events.TransferCreatedEvent{
			TransferID:           c.TransferID,
			SourceAccountID:      c.SourceAccountID,
			DestinationAccountID: c.DestinationAccountID,
			Amount:               c.Amount,
		}}, nil

	case commands.MarkTransferCompleted:
		if t.Terminal() {
			return nil, nil
		}
		return []events.Event{events.TransferCompletedEvent{TransferID: c.TransferID}}, nil

	case commands.MarkTransferFailed:
		if t.Terminal() {
			return nil, nil
		}
		return []events.Event{events.TransferFailedEvent{TransferID: c.TransferID}}, nil

	default:
		return nil, fmt.Errorf("transfer aggregate: unexpected command %q", cmd.CommandType())
	}
}
