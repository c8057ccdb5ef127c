// Package account implements the event-sourced bank account aggregate.
//
// The aggregate is split into two pure functions: Decide validates a command
// against replayed state and produces events, Evolve folds one event into the
// state. All mutation happens through replay; Decide never touches state and
// Evolve never validates.
//
// Invariants:
//   - Balance never drops below -OverdraftLimit; enforced in Decide before a
//     debit-causing event is produced, never after.
//   - The overdraft limit is immutable after creation.
package account

import (
	"fmt"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// Account is the replayed state of one bank account. The zero value is the
// state of an account that does not exist yet.
type Account struct {
	ID             string
	OverdraftLimit int64
	Balance        int64
}

// Exists reports whether a creation event has been replayed into the state.
func (a Account) Exists() bool {
	return a.ID != ""
}

// Replay folds a stream of events into account state, starting from the zero
// value. Replay is deterministic and side-effect free: replaying the same
// stream twice yields identical state.
func Replay(history []events.Event) Account {
	var a Account
	for _, e := range history {
		a = Evolve(a, e)
	}
	return a
}

// Evolve applies a single event to the state and returns the new state.
// Unknown or purely informational events (debit rejections) leave the state
// untouched.
func Evolve(a Account, e events.Event) Account {
	switch ev := e.(type) {
	case events.AccountCreatedEvent:
		a.ID = ev.ID
		a.OverdraftLimit = ev.OverdraftLimit
		a.Balance = 0
	case events.MoneyDepositedEvent:
		a.Balance += ev.Amount
	case events.MoneyWithdrawnEvent:
		a.Balance -= ev.Amount
	case events.SourceAccountDebitedEvent:
		a.Balance -= ev.Amount
	case events.DestinationAccountCreditedEvent:
		a.Balance += ev.Amount
	case events.MoneyReturnedEvent:
		a.Balance += ev.Amount
	}
	return a
}

// Decide validates a command against the current state and returns the events
// to append. A nil event slice with a nil error means the command was
// accepted but changes nothing (withdraw with insufficient funds, by design).
func Decide(a Account, cmd commands.Command) ([]events.Event, error) {
	switch c := cmd.(type) {
	case commands.CreateAccount:
		if a.Exists() {
			return nil, common.ErrAccountAlreadyExists
		}
		if c.OverdraftLimit < 0 {
			return nil, fmt.Errorf("overdraft limit must not be negative: %d", c.OverdraftLimit)
		}
		return []events.Event{events.AccountCreatedEvent{
			ID:             c.AccountID,
			OverdraftLimit: c.OverdraftLimit,
		}}, nil

	case commands.Deposit:
		if c.Amount <= 0 {
			return nil, common.ErrAmountMustBePositive
		}
		return []events.Event{events.MoneyDepositedEvent{
			ID:     c.AccountID,
			Amount: c.Amount,
		}}, nil

	case commands.Withdraw:
		if c.Amount <= 0 {
			return nil, common.ErrAmountMustBePositive
		}
		if c.Amount > a.Balance+a.OverdraftLimit {
			// Silently dropped: withdrawals have no saga observing them,
			// so a rejection event would be dead weight in the stream.
			return nil, nil
		}
		return []events.Event{events.MoneyWithdrawnEvent{
			ID:     c.AccountID,
			Amount: c.Amount,
		}}, nil

	case commands.DebitSourceAccount:
		if c.Amount > a.Balance+a.OverdraftLimit {
			return []events.Event{events.SourceAccountDebitRejectedEvent{
				TransferID: c.TransferID,
			}}, nil
		}
		return []events.Event{events.SourceAccountDebitedEvent{
			ID:         c.AccountID,
			Amount:     c.Amount,
			TransferID: c.TransferID,
		}}, nil

	case commands.CreditDestinationAccount:
		return []events.Event{events.DestinationAccountCreditedEvent{
			ID:         c.AccountID,
			Amount:     c.Amount,
			TransferID: c.TransferID,
		}}, nil

	case commands.ReturnMoney:
		return []events.Event{events.MoneyReturnedEvent{
			ID:     c.AccountID,
			Amount: c.Amount,
		}}, nil

	default:
		return nil, fmt.Errorf("account aggregate: unexpected command %q", cmd.CommandType())
	}
}
