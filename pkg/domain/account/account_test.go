package account_test

import (
	"io"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/domain/account"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	evts, err := account.Decide(account.Account{}, commands.CreateAccount{
		AccountID:      "acc-1",
		OverdraftLimit: 500,
	})
	require.NoError(err, "creating a fresh account should not return an error")
	require.Len(evts, 1)
	created, ok := evts[0].(events.AccountCreatedEvent)
	require.True(ok, "expected an AccountCreatedEvent")
	assert.Equal("acc-1", created.ID)
	assert.Equal(int64(500), created.OverdraftLimit)

	state := account.Replay(evts)
	assert.True(state.Exists())
	assert.Equal(int64(0), state.Balance, "a new account starts at zero balance")
	assert.Equal(int64(500), state.OverdraftLimit)
}

func TestCreateAccountTwice(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 0},
	})
	_, err := account.Decide(state, commands.CreateAccount{AccountID: "acc-1"})
	assert.ErrorIs(err, common.ErrAccountAlreadyExists)
}

func TestCreateAccountNegativeOverdraft(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := account.Decide(account.Account{}, commands.CreateAccount{
		AccountID:      "acc-1",
		OverdraftLimit: -1,
	})
	assert.Error(err, "a negative overdraft limit should be rejected")
}

func TestDeposit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
	})
	evts, err := account.Decide(state, commands.Deposit{AccountID: "acc-1", Amount: 100})
	require.NoError(err)
	require.Len(evts, 1)
	for _, e := range evts {
		state = account.Evolve(state, e)
	}
	assert.Equal(int64(100), state.Balance)
}

func TestDepositNonPositiveAmount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
	})
	_, err := account.Decide(state, commands.Deposit{AccountID: "acc-1", Amount: 0})
	assert.ErrorIs(err, common.ErrAmountMustBePositive)
	_, err = account.Decide(state, commands.Deposit{AccountID: "acc-1", Amount: -50})
	assert.ErrorIs(err, common.ErrAmountMustBePositive)
}

func TestWithdrawWithinBalance(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 100},
	})
	evts, err := account.Decide(state, commands.Withdraw{AccountID: "acc-1", Amount: 60})
	require.NoError(err)
	require.Len(evts, 1)
	state = account.Evolve(state, evts[0])
	assert.Equal(int64(40), state.Balance)
}

func TestWithdrawIntoOverdraft(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 50},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 100},
	})
	evts, err := account.Decide(state, commands.Withdraw{AccountID: "acc-1", Amount: 150})
	require.NoError(err, "withdrawing exactly to the overdraft limit is allowed")
	require.Len(evts, 1)
	state = account.Evolve(state, evts[0])
	assert.Equal(int64(-50), state.Balance)
}

func TestWithdrawInsufficientFundsIsSilent(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 50},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 100},
	})
	evts, err := account.Decide(state, commands.Withdraw{AccountID: "acc-1", Amount: 151})
	require.NoError(err, "an over-limit withdrawal is accepted, not errored")
	assert.Empty(evts, "an over-limit withdrawal produces no events")
}

func TestDebitSourceAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 1000},
	})
	evts, err := account.Decide(state, commands.DebitSourceAccount{
		AccountID:  "acc-1",
		TransferID: "tx-1",
		Amount:     400,
	})
	require.NoError(err)
	require.Len(evts, 1)
	debited, ok := evts[0].(events.SourceAccountDebitedEvent)
	require.True(ok, "expected a SourceAccountDebitedEvent")
	assert.Equal("tx-1", debited.TransferID)
	state = account.Evolve(state, debited)
	assert.Equal(int64(600), state.Balance)
}

func TestDebitSourceAccountRejected(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 100},
	})
	evts, err := account.Decide(state, commands.DebitSourceAccount{
		AccountID:  "acc-1",
		TransferID: "tx-1",
		Amount:     400,
	})
	require.NoError(err, "an over-limit debit is not an error; it emits a rejection")
	require.Len(evts, 1)
	rejected, ok := evts[0].(events.SourceAccountDebitRejectedEvent)
	require.True(ok, "expected a SourceAccountDebitRejectedEvent")
	assert.Equal("tx-1", rejected.TransferID)

	after := account.Evolve(state, rejected)
	assert.Equal(state.Balance, after.Balance, "a rejection leaves the balance untouched")
}

func TestCreditDestinationAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-2"},
	})
	evts, err := account.Decide(state, commands.CreditDestinationAccount{
		AccountID:  "acc-2",
		TransferID: "tx-1",
		Amount:     400,
	})
	require.NoError(err)
	require.Len(evts, 1)
	state = account.Evolve(state, evts[0])
	assert.Equal(int64(400), state.Balance)
}

func TestReturnMoney(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1"},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 1000},
		events.SourceAccountDebitedEvent{ID: "acc-1", Amount: 400, TransferID: "tx-1"},
	})
	require.Equal(int64(600), state.Balance)

	evts, err := account.Decide(state, commands.ReturnMoney{AccountID: "acc-1", Amount: 400})
	require.NoError(err)
	require.Len(evts, 1)
	state = account.Evolve(state, evts[0])
	assert.Equal(int64(1000), state.Balance, "compensation restores the pre-debit balance")
}

func TestReplayIsDeterministic(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	history := []events.Event{
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 200},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 1000},
		events.MoneyWithdrawnEvent{ID: "acc-1", Amount: 300},
		events.SourceAccountDebitedEvent{ID: "acc-1", Amount: 150, TransferID: "tx-1"},
		events.MoneyReturnedEvent{ID: "acc-1", Amount: 150},
	}
	first := account.Replay(history)
	second := account.Replay(history)
	assert.Equal(first, second, "replaying the same stream twice yields identical state")
	assert.Equal(int64(700), first.Balance)
}

func TestBalanceNeverBelowOverdraftLimit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	state := account.Replay([]events.Event{
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 100},
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 50},
	})

	// Run a mix of withdrawals and debits; whatever is accepted must keep
	// the balance at or above -OverdraftLimit.
	cmds := []commands.Command{
		commands.Withdraw{AccountID: "acc-1", Amount: 120},
		commands.DebitSourceAccount{AccountID: "acc-1", TransferID: "tx-1", Amount: 40},
		commands.Withdraw{AccountID: "acc-1", Amount: 500},
		commands.DebitSourceAccount{AccountID: "acc-1", TransferID: "tx-2", Amount: 90},
		commands.Withdraw{AccountID: "acc-1", Amount: 10},
	}
	for _, cmd := range cmds {
		evts, err := account.Decide(state, cmd)
		require.NoError(err)
		for _, e := range evts {
			state = account.Evolve(state, e)
		}
		assert.GreaterOrEqual(state.Balance, -state.OverdraftLimit,
			"balance must never drop below the overdraft limit")
	}
}
