// Package commands contains the immutable command DTOs dispatched to the
// account and transfer aggregates. Commands are transient requests, never
// persisted; each one names the aggregate it targets.
package commands

// Command is the contract all commands satisfy.
type Command interface {
	// CommandType identifies the command for dispatch-table routing.
	CommandType() string
	// AggregateID is the id of the aggregate the command targets.
	AggregateID() string
}

// Command type constants, resolved into the dispatcher's routing table at
// startup.
const (
	TypeCreateAccount            = "CreateAccount"
	TypeDeposit                  = "Deposit"
	TypeWithdraw                 = "Withdraw"
	TypeDebitSourceAccount       = "DebitSourceAccount"
	TypeCreditDestinationAccount = "CreditDestinationAccount"
	TypeReturnMoney              = "ReturnMoney"
	TypeCreateTransfer           = "CreateTransfer"
	TypeMarkTransferCompleted    = "MarkTransferCompleted"
	TypeMarkTransferFailed       = "MarkTransferFailed"
)
