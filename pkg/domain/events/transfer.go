package events

// TransferCreatedEvent is emitted when a transfer workflow is started. It
// carries everything the saga caches for the rest of the workflow.
type TransferCreatedEvent struct {
	TransferID           string `json:"transfer_id"`
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               int64  `json:"amount"`
}

// TransferCompletedEvent is emitted when the transfer reached its COMPLETED
// terminal state.
type TransferCompletedEvent struct {
	TransferID string `json:"transfer_id"`
}

// TransferFailedEvent is emitted when the transfer reached its FAILED
// terminal state.
type TransferFailedEvent struct {
	TransferID string `json:"transfer_id"`
}

func (e TransferCreatedEvent) Type() EventType   { return EventTypeTransferCreated }
func (e TransferCompletedEvent) Type() EventType { return EventTypeTransferCompleted }
func (e TransferFailedEvent) Type() EventType    { return EventTypeTransferFailed }

func (e TransferCreatedEvent) AggregateID() string   { return e.TransferID }
func (e TransferCompletedEvent) AggregateID() string { return e.TransferID }
func (e TransferFailedEvent) AggregateID() string    { return e.TransferID }
