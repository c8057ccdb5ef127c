package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	// Account events
	EventTypeAccountCreated       EventType = "Account.Created"
	EventTypeMoneyDeposited       EventType = "Account.MoneyDeposited"
	EventTypeMoneyWithdrawn       EventType = "Account.MoneyWithdrawn"
	EventTypeSourceDebited        EventType = "Account.SourceDebited"
	EventTypeSourceDebitRejected  EventType = "Account.SourceDebitRejected"
	EventTypeSourceNotFound       EventType = "Account.SourceNotFound"
	EventTypeDestinationCredited  EventType = "Account.DestinationCredited"
	EventTypeDestinationNotFound  EventType = "Account.DestinationNotFound"
	EventTypeMoneyReturned        EventType = "Account.MoneyReturned"

	// Transfer events
	EventTypeTransferCreated   EventType = "Transfer.Created"
	EventTypeTransferCompleted EventType = "Transfer.Completed"
	EventTypeTransferFailed    EventType = "Transfer.Failed"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}
