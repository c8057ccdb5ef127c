package events

import (
	"encoding/json"
	"fmt"
)

// Decode reconstructs a concrete event from its type tag and JSON payload.
// The mapping is explicit so that adding an event type without wiring its
// decoding fails loudly at the first replay, not silently.
func Decode(eventType EventType, payload []byte) (Event, error) {
	factories := map[EventType]func() Event{
		EventTypeAccountCreated:      func() Event { return &AccountCreatedEvent{} },
		EventTypeMoneyDeposited:      func() Event { return &MoneyDepositedEvent{} },
		EventTypeMoneyWithdrawn:      func() Event { return &MoneyWithdrawnEvent{} },
		EventTypeSourceDebited:       func() Event { return &SourceAccountDebitedEvent{} },
		EventTypeSourceDebitRejected: func() Event { return &SourceAccountDebitRejectedEvent{} },
		EventTypeSourceNotFound:      func() Event { return &SourceAccountNotFoundEvent{} },
		EventTypeDestinationCredited: func() Event { return &DestinationAccountCreditedEvent{} },
		EventTypeDestinationNotFound: func() Event { return &DestinationAccountNotFoundEvent{} },
		EventTypeMoneyReturned:       func() Event { return &MoneyReturnedEvent{} },
		EventTypeTransferCreated:     func() Event { return &TransferCreatedEvent{} },
		EventTypeTransferCompleted:   func() Event { return &TransferCompletedEvent{} },
		EventTypeTransferFailed:      func() Event { return &TransferFailedEvent{} },
	}
	factory, ok := factories[eventType]
	if !ok {
		return nil, fmt.Errorf("decode event: unknown event type %q", eventType)
	}
	e := factory()
	if err := json.Unmarshal(payload, e); err != nil {
		return nil, fmt.Errorf("decode event %q: %w", eventType, err)
	}
	return deref(e), nil
}

// deref unwraps the pointer handed to json.Unmarshal so subscribers always
// see the same value types that in-process publishing produces.
func deref(e Event) Event {
	switch ev := e.(type) {
	case *AccountCreatedEvent:
		return *ev
	case *MoneyDepositedEvent:
		return *ev
	case *MoneyWithdrawnEvent:
		return *ev
	case *SourceAccountDebitedEvent:
		return *ev
	case *SourceAccountDebitRejectedEvent:
		return *ev
	case *SourceAccountNotFoundEvent:
		return *ev
	case *DestinationAccountCreditedEvent:
		return *ev
	case *DestinationAccountNotFoundEvent:
		return *ev
	case *MoneyReturnedEvent:
		return *ev
	case *TransferCreatedEvent:
		return *ev
	case *TransferCompletedEvent:
		return *ev
	case *TransferFailedEvent:
		return *ev
	default:
		return e
	}
}
