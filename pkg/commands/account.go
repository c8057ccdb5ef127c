package commands

// CreateAccount opens a new account with an immutable overdraft limit.
type CreateAccount struct {
	AccountID      string
	OverdraftLimit int64
}

// Deposit adds money to an account.
type Deposit struct {
	AccountID string
	Amount    int64
}

// Withdraw takes money out of an account. Insufficient funds make it a
// silent no-op; nothing downstream observes a withdrawal rejection.
type Withdraw struct {
	AccountID string
	Amount    int64
}

// DebitSourceAccount takes the transfer amount out of the source account.
// Unlike Withdraw, a rejection is recorded as an event because the saga has
// to observe it.
type DebitSourceAccount struct {
	AccountID  string
	TransferID string
	Amount     int64
}

// CreditDestinationAccount hands the transfer amount to the destination
// account. The destination can always receive funds.
type CreditDestinationAccount struct {
	AccountID  string
	TransferID string
	Amount     int64
}

// ReturnMoney credits money back to the source account of a failed transfer.
type ReturnMoney struct {
	AccountID string
	Amount    int64
}

func (c CreateAccount) CommandType() string            { return TypeCreateAccount }
func (c Deposit) CommandType() string                  { return TypeDeposit }
func (c Withdraw) CommandType() string                 { return TypeWithdraw }
func (c DebitSourceAccount) CommandType() string       { return TypeDebitSourceAccount }
func (c CreditDestinationAccount) CommandType() string { return TypeCreditDestinationAccount }
func (c ReturnMoney) CommandType() string              { return TypeReturnMoney }

func (c CreateAccount) AggregateID() string            { return c.AccountID }
func (c Deposit) AggregateID() string                  { return c.AccountID }
func (c Withdraw) AggregateID() string                 { return c.AccountID }
func (c DebitSourceAccount) AggregateID() string       { return c.AccountID }
func (c CreditDestinationAccount) AggregateID() string { return c.AccountID }
func (c ReturnMoney) AggregateID() string              { return c.AccountID }
