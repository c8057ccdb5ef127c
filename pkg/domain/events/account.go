package events

// AccountCreatedEvent is emitted when a new account is opened.
type AccountCreatedEvent struct {
	ID             string `json:"id"`
	OverdraftLimit int64  `json:"overdraft_limit"`
}

// MoneyDepositedEvent is emitted when money is deposited into an account.
type MoneyDepositedEvent struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// MoneyWithdrawnEvent is emitted when money is withdrawn from an account.
type MoneyWithdrawnEvent struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// SourceAccountDebitedEvent is emitted when the source account of a transfer
// was successfully debited. It carries the transfer id for saga correlation.
type SourceAccountDebitedEvent struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	TransferID string `json:"transfer_id"`
}

// SourceAccountDebitRejectedEvent is emitted when the source account declined
// a debit for insufficient funds. The balance is unchanged.
type SourceAccountDebitRejectedEvent struct {
	TransferID string `json:"transfer_id"`
}

// SourceAccountNotFoundEvent is published when a debit command targets an
// account that does not exist. Absence is a saga-observable outcome here,
// not an error.
type SourceAccountNotFoundEvent struct {
	TransferID string `json:"transfer_id"`
}

// DestinationAccountCreditedEvent is emitted when the destination account of
// a transfer received the funds.
type DestinationAccountCreditedEvent struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	TransferID string `json:"transfer_id"`
}

// DestinationAccountNotFoundEvent is published when a credit command targets
// an account that does not exist.
type DestinationAccountNotFoundEvent struct {
	TransferID string `json:"transfer_id"`
}

// MoneyReturnedEvent is emitted when money of a failed transfer is credited
// back to the source account (the saga's compensating action).
type MoneyReturnedEvent struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

func (e AccountCreatedEvent) Type() EventType             { return EventTypeAccountCreated }
func (e MoneyDepositedEvent) Type() EventType             { return EventTypeMoneyDeposited }
func (e MoneyWithdrawnEvent) Type() EventType             { return EventTypeMoneyWithdrawn }
func (e SourceAccountDebitedEvent) Type() EventType       { return EventTypeSourceDebited }
func (e SourceAccountDebitRejectedEvent) Type() EventType { return EventTypeSourceDebitRejected }
func (e SourceAccountNotFoundEvent) Type() EventType      { return EventTypeSourceNotFound }
func (e DestinationAccountCreditedEvent) Type() EventType { return EventTypeDestinationCredited }
func (e DestinationAccountNotFoundEvent) Type() EventType { return EventTypeDestinationNotFound }
func (e MoneyReturnedEvent) Type() EventType              { return EventTypeMoneyReturned }

func (e AccountCreatedEvent) AggregateID() string             { return e.ID }
func (e MoneyDepositedEvent) AggregateID() string             { return e.ID }
func (e MoneyWithdrawnEvent) AggregateID() string             { return e.ID }
func (e SourceAccountDebitedEvent) AggregateID() string       { return e.ID }
func (e SourceAccountDebitRejectedEvent) AggregateID() string { return e.TransferID }
func (e SourceAccountNotFoundEvent) AggregateID() string      { return e.TransferID }
func (e DestinationAccountCreditedEvent) AggregateID() string { return e.ID }
func (e DestinationAccountNotFoundEvent) AggregateID() string { return e.TransferID }
func (e MoneyReturnedEvent) AggregateID() string              { return e.ID }
