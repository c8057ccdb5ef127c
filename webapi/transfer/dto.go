package transfer

// CreateTransferRequest is the body for POST /transfer.
type CreateTransferRequest struct {
	SourceAccountID      string `json:"source_account_id" validate:"required"`
	DestinationAccountID string `json:"destination_account_id" validate:"required"`
	Amount               int64  `json:"amount" validate:"required,gt=0"`
}

// TransferResponse is the replayed view of a transfer.
type TransferResponse struct {
	ID                   string `json:"id"`
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               int64  `json:"amount"`
	Status               string `json:"status"`
}
