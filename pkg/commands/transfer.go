package commands

// CreateTransfer starts a new transfer workflow between two accounts.
type CreateTransfer struct {
	TransferID           string
	SourceAccountID      string
	DestinationAccountID string
	Amount               int64
}

// MarkTransferCompleted moves a transfer to its COMPLETED terminal state.
// Issued only by the saga.
type MarkTransferCompleted struct {
	TransferID string
}

// MarkTransferFailed moves a transfer to its FAILED terminal state. Issued
// only by the saga.
type MarkTransferFailed struct {
	TransferID string
}

func (c CreateTransfer) CommandType() string        { return TypeCreateTransfer }
func (c MarkTransferCompleted) CommandType() string { return TypeMarkTransferCompleted }
func (c MarkTransferFailed) CommandType() string    { return TypeMarkTransferFailed }

func (c CreateTransfer) AggregateID() string        { return c.TransferID }
func (c MarkTransferCompleted) AggregateID() string { return c.TransferID }
func (c MarkTransferFailed) AggregateID() string    { return c.TransferID }
