// Package saga orchestrates the funds-transfer workflow across the account
// and transfer aggregates. The saga owns no aggregate state: it watches
// events, issues the next command, and compensates when a step fails.
//
// One instance exists per transfer id (the correlation key) and walks
//
//	AWAITING_DEBIT -> AWAITING_CREDIT -> {COMPLETED | FAILED}
//
// with FAILED also reachable straight from AWAITING_DEBIT. Every failure path
// converges on marking the transfer FAILED; the one path that already debited
// the source (destination missing) returns the money first — the workflow's
// single compensating action.
//
// Instances are kept after reaching a terminal phase so that redelivered
// events, which an at-least-once bus will produce, find a terminal instance
// and do nothing.
package saga

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/dispatcher"
	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventbus"
)

type phase int

const (
	phaseAwaitingDebit phase = iota
	phaseAwaitingCredit
	phaseCompleted
	phaseFailed
)

// instance carries the per-transfer state the saga caches at creation time
// so later transitions never re-read the transfer aggregate.
type instance struct {
	sourceAccountID      string
	destinationAccountID string
	amount               int64
	phase                phase
}

// TransferSaga is the process-scoped transfer orchestrator.
type TransferSaga struct {
	dispatcher *dispatcher.Dispatcher
	logger     *slog.Logger

	mu        sync.Mutex
	instances map[string]*instance
}

// New creates a TransferSaga.
func New(d *dispatcher.Dispatcher, logger *slog.Logger) *TransferSaga {
	return &TransferSaga{
		dispatcher: d,
		logger:     logger.With("component", "transfer-saga"),
		instances:  make(map[string]*instance),
	}
}

// Register subscribes the saga to every event type it reacts to.
func (s *TransferSaga) Register(bus eventbus.Bus) {
	for _, t := range []events.EventType{
		events.EventTypeTransferCreated,
		events.EventTypeSourceDebited,
		events.EventTypeSourceDebitRejected,
		events.EventTypeSourceNotFound,
		events.EventTypeDestinationCredited,
		events.EventTypeDestinationNotFound,
	} {
		bus.Register(t, s.Handle)
	}
}

// Handle reacts to one delivered event. State is advanced under the lock
// first, then the follow-up commands are dispatched with the lock released:
// a synchronous bus delivers the resulting events back into Handle on the
// same goroutine, and the re-entry must not find the lock held.
func (s *TransferSaga) Handle(ctx context.Context, e events.Event) error {
	cmds := s.transition(e)
	for _, cmd := range cmds {
		if err := s.dispatcher.Dispatch(ctx, cmd); err != nil {
			s.logger.Error("failed to dispatch saga command",
				"command", cmd.CommandType(),
				"aggregate_id", cmd.AggregateID(),
				"error", err)
			return err
		}
	}
	return nil
}

// transition applies one event to the saga state machine and returns the
// commands to issue. Events that do not match the instance's current phase
// (redeliveries, late arrivals for a terminal transfer) return nothing.
func (s *TransferSaga) transition(e events.Event) []commands.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := e.(type) {
	case events.TransferCreatedEvent:
		if _, ok := s.instances[ev.TransferID]; ok {
			return nil // redelivered creation
		}
		s.instances[ev.TransferID] = &instance{
			sourceAccountID:      ev.SourceAccountID,
			destinationAccountID: ev.DestinationAccountID,
			amount:               ev.Amount,
			phase:                phaseAwaitingDebit,
		}
		s.logger.Info("transfer started",
			"transfer_id", ev.TransferID,
			"source", ev.SourceAccountID,
			"destination", ev.DestinationAccountID,
			"amount", ev.Amount)
		return []commands.Command{commands.DebitSourceAccount{
			AccountID:  ev.SourceAccountID,
			TransferID: ev.TransferID,
			Amount:     ev.Amount,
		}}

	case events.SourceAccountNotFoundEvent:
		inst, ok := s.instances[ev.TransferID]
		if !ok || inst.phase != phaseAwaitingDebit {
			return nil
		}
		inst.phase = phaseFailed
		s.logger.Warn("transfer failed: source account not found",
			"transfer_id", ev.TransferID)
		return []commands.Command{commands.MarkTransferFailed{TransferID: ev.TransferID}}

	case events.SourceAccountDebitRejectedEvent:
		inst, ok := s.instances[ev.TransferID]
		if !ok || inst.phase != phaseAwaitingDebit {
			return nil
		}
		inst.phase = phaseFailed
		s.logger.Warn("transfer failed: debit rejected",
			"transfer_id", ev.TransferID)
		return []commands.Command{commands.MarkTransferFailed{TransferID: ev.TransferID}}

	case events.SourceAccountDebitedEvent:
		inst, ok := s.instances[ev.TransferID]
		if !ok || inst.phase != phaseAwaitingDebit {
			return nil
		}
		inst.phase = phaseAwaitingCredit
		return []commands.Command{commands.CreditDestinationAccount{
			AccountID:  inst.destinationAccountID,
			TransferID: ev.TransferID,
			Amount:     ev.Amount,
		}}

	case events.DestinationAccountNotFoundEvent:
		inst, ok := s.instances[ev.TransferID]
		if !ok || inst.phase != phaseAwaitingCredit {
			return nil
		}
		inst.phase = phaseFailed
		s.logger.Warn("transfer failed: destination account not found, compensating",
			"transfer_id", ev.TransferID,
			"source", inst.sourceAccountID,
			"amount", inst.amount)
		return []commands.Command{
			commands.ReturnMoney{
				AccountID: inst.sourceAccountID,
				Amount:    inst.amount,
			},
			commands.MarkTransferFailed{TransferID: ev.TransferID},
		}

	case events.DestinationAccountCreditedEvent:
		inst, ok := s.instances[ev.TransferID]
		if !ok || inst.phase != phaseAwaitingCredit {
			return nil
		}
		inst.phase = phaseCompleted
		s.logger.Info("transfer completed", "transfer_id", ev.TransferID)
		return []commands.Command{commands.MarkTransferCompleted{TransferID: ev.TransferID}}
	}
	return nil
}
