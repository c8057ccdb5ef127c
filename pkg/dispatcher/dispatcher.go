// Package dispatcher routes commands to the aggregate they target. For each
// command it loads the aggregate by replaying its stream, asks the
// aggregate's pure Decide for events, appends them with an expected-version
// check, and publishes what was appended.
//
// Two behaviors are deliberate and load-bearing:
//
//   - A lost optimistic-concurrency race is recovered locally: the dispatcher
//     reloads the stream and re-decides, up to a bounded number of attempts.
//     Callers never see a transient conflict.
//   - A debit or credit aimed at an account with no stream does not fail.
//     The dispatcher publishes a not-found event instead, so the saga can
//     treat absence as a business outcome and drive the transfer to FAILED.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/domain/account"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/domain/transfer"
	"github.com/amirasaad/banksaga/pkg/eventbus"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// maxAppendRetries bounds the reload-and-redecide loop after a version
// conflict. Conflicts resolve in one retry unless a stream is under
// pathological contention.
const maxAppendRetries = 5

type routeFunc func(ctx context.Context, cmd commands.Command) error

// Dispatcher routes commands to aggregate handlers via an explicit dispatch
// table resolved at construction time.
type Dispatcher struct {
	store  eventstore.Store
	bus    eventbus.Bus
	logger *slog.Logger
	routes map[string]routeFunc
}

// New creates a Dispatcher and resolves its routing table.
func New(store eventstore.Store, bus eventbus.Bus, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		bus:    bus,
		logger: logger.With("component", "dispatcher"),
	}
	d.routes = map[string]routeFunc{
		commands.TypeCreateAccount:            d.handleAccount,
		commands.TypeDeposit:                  d.handleAccount,
		commands.TypeWithdraw:                 d.handleAccount,
		commands.TypeDebitSourceAccount:       d.handleAccount,
		commands.TypeCreditDestinationAccount: d.handleAccount,
		commands.TypeReturnMoney:              d.handleAccount,
		commands.TypeCreateTransfer:           d.handleTransfer,
		commands.TypeMarkTransferCompleted:    d.handleTransfer,
		commands.TypeMarkTransferFailed:       d.handleTransfer,
	}
	return d
}

// Dispatch routes a command to its aggregate. It returns after the resulting
// events are appended and published; a command that legitimately produces no
// events returns nil.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd commands.Command) error {
	route, ok := d.routes[cmd.CommandType()]
	if !ok {
		return fmt.Errorf("dispatcher: no route for command %q", cmd.CommandType())
	}
	d.logger.Debug("dispatching command",
		"command", cmd.CommandType(), "aggregate_id", cmd.AggregateID())
	return route(ctx, cmd)
}

func (d *Dispatcher) handleAccount(ctx context.Context, cmd commands.Command) error {
	streamID := eventstore.StreamID(eventstore.AggregateAccount, cmd.AggregateID())

	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		history, version, err := d.store.ReadStream(ctx, streamID)
		if err != nil {
			return fmt.Errorf("dispatcher: load account %q: %w", cmd.AggregateID(), err)
		}

		if version == 0 {
			// Absence handling depends on who is asking. Only the two
			// saga-issued commands turn it into a published event.
			switch c := cmd.(type) {
			case commands.CreateAccount:
				// stream creation is the normal path
			case commands.DebitSourceAccount:
				return d.publish(ctx, events.SourceAccountNotFoundEvent{TransferID: c.TransferID})
			case commands.CreditDestinationAccount:
				return d.publish(ctx, events.DestinationAccountNotFoundEvent{TransferID: c.TransferID})
			default:
				return common.ErrAccountNotFound
			}
		}

		state := account.Replay(history)
		evts, err := account.Decide(state, cmd)
		if err != nil {
			return err
		}
		if len(evts) == 0 {
			return nil
		}

		err = d.store.AppendToStream(ctx, streamID, version, evts...)
		if errors.Is(err, eventstore.ErrVersionConflict) {
			d.logger.Debug("append conflict, retrying",
				"stream", streamID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return fmt.Errorf("dispatcher: append account %q: %w", cmd.AggregateID(), err)
		}
		return d.publish(ctx, evts...)
	}
	return fmt.Errorf("dispatcher: account %q: %w", cmd.AggregateID(), eventstore.ErrVersionConflict)
}

func (d *Dispatcher) handleTransfer(ctx context.Context, cmd commands.Command) error {
	streamID := eventstore.StreamID(eventstore.AggregateTransfer, cmd.AggregateID())

	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		history, version, err := d.store.ReadStream(ctx, streamID)
		if err != nil {
			return fmt.Errorf("dispatcher: load transfer %q: %w", cmd.AggregateID(), err)
		}
		if version == 0 {
			if _, ok := cmd.(commands.CreateTransfer); !ok {
				return common.ErrTransferNotFound
			}
		}

		state := transfer.Replay(history)
		evts, err := transfer.Decide(state, cmd)
		if err != nil {
			return err
		}
		if len(evts) == 0 {
			return nil
		}

		err = d.store.AppendToStream(ctx, streamID, version, evts...)
		if errors.Is(err, eventstore.ErrVersionConflict) {
			d.logger.Debug("append conflict, retrying",
				"stream", streamID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return fmt.Errorf("dispatcher: append transfer %q: %w", cmd.AggregateID(), err)
		}
		return d.publish(ctx, evts...)
	}
	return fmt.Errorf("dispatcher: transfer %q: %w", cmd.AggregateID(), eventstore.ErrVersionConflict)
}

func (d *Dispatcher) publish(ctx context.Context, evts ...events.Event) error {
	for _, e := range evts {
		if err := d.bus.Emit(ctx, e); err != nil {
			// The append already happened; losing the publish is a bus
			// concern, not a command failure. At-least-once consumers
			// recover via the store, so log and keep going.
			d.logger.Error("failed to publish event",
				"type", e.Type(), "aggregate_id", e.AggregateID(), "error", err)
		}
	}
	return nil
}
