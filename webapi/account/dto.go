package account

// CreateAccountRequest is the body for POST /account.
type CreateAccountRequest struct {
	OverdraftLimit int64 `json:"overdraft_limit" validate:"gte=0"`
}

// AmountRequest is the body for deposit and withdraw operations. Amounts are
// integer cents.
type AmountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// AccountResponse is the replayed view of an account.
type AccountResponse struct {
	ID             string `json:"id"`
	Balance        int64  `json:"balance"`
	OverdraftLimit int64  `json:"overdraft_limit"`
}
