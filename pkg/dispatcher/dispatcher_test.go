package dispatcher_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/amirasaad/banksaga/infra/eventbus"
	infraeventstore "github.com/amirasaad/banksaga/infra/eventstore"
	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/dispatcher"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func newDispatcher() (*dispatcher.Dispatcher, *infraeventstore.MemoryStore, *infraeventbus.MemoryEventBus) {
	store := infraeventstore.NewWithMemory()
	bus := infraeventbus.NewWithMemory(slog.Default())
	return dispatcher.New(store, bus, slog.Default()), store, bus
}

func TestDispatchCreateAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	d, store, bus := newDispatcher()
	ctx := context.Background()

	require.NoError(d.Dispatch(ctx, commands.CreateAccount{AccountID: "acc-1", OverdraftLimit: 100}))

	history, version, err := store.ReadStream(ctx, eventstore.StreamID(eventstore.AggregateAccount, "acc-1"))
	require.NoError(err)
	assert.Equal(1, version)
	assert.Equal(events.EventTypeAccountCreated, history[0].Type())

	published := bus.Published()
	require.Len(published, 1, "appended events are published")
	assert.Equal(events.EventTypeAccountCreated, published[0].Type())
}

func TestDispatchDuplicateCreateAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	d, _, _ := newDispatcher()
	ctx := context.Background()

	require.NoError(d.Dispatch(ctx, commands.CreateAccount{AccountID: "acc-1"}))
	err := d.Dispatch(ctx, commands.CreateAccount{AccountID: "acc-1"})
	assert.ErrorIs(err, common.ErrAccountAlreadyExists)
}

func TestDispatchDepositToMissingAccount(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	d, _, bus := newDispatcher()
	err := d.Dispatch(context.Background(), commands.Deposit{AccountID: "nope", Amount: 100})
	assert.ErrorIs(err, common.ErrAccountNotFound)
	assert.Empty(bus.Published(), "a rejected deposit publishes nothing")
}

func TestDispatchDebitMissingAccountPublishesNotFound(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	d, store, bus := newDispatcher()
	ctx := context.Background()

	require.NoError(d.Dispatch(ctx, commands.DebitSourceAccount{
		AccountID:  "nope",
		TransferID: "tx-1",
		Amount:     100,
	}), "debiting a missing account is a business outcome, not an error")

	published := bus.Published()
	require.Len(published, 1)
	notFound, ok := published[0].(events.SourceAccountNotFoundEvent)
	require.True(ok, "expected a SourceAccountNotFoundEvent")
	assert.Equal("tx-1", notFound.TransferID)

	_, version, err := store.ReadStream(ctx, eventstore.StreamID(eventstore.AggregateAccount, "nope"))
	require.NoError(err)
	assert.Equal(0, version, "the missing account's stream stays empty")
}

func TestDispatchCreditMissingAccountPublishesNotFound(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	d, _, bus := newDispatcher()

	require.NoError(d.Dispatch(context.Background(), commands.CreditDestinationAccount{
		AccountID:  "nope",
		TransferID: "tx-1",
		Amount:     100,
	}))

	published := bus.Published()
	require.Len(published, 1)
	notFound, ok := published[0].(events.DestinationAccountNotFoundEvent)
	require.True(ok, "expected a DestinationAccountNotFoundEvent")
	assert.Equal("tx-1", notFound.TransferID)
}

func TestDispatchSilentWithdrawPublishesNothing(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	d, store, bus := newDispatcher()
	ctx := context.Background()

	require.NoError(d.Dispatch(ctx, commands.CreateAccount{AccountID: "acc-1"}))
	require.NoError(d.Dispatch(ctx, commands.Deposit{AccountID: "acc-1", Amount: 50}))
	bus.ClearPublished()

	require.NoError(d.Dispatch(ctx, commands.Withdraw{AccountID: "acc-1", Amount: 500}))
	assert.Empty(bus.Published(), "an over-limit withdrawal appends and publishes nothing")

	_, version, err := store.ReadStream(ctx, eventstore.StreamID(eventstore.AggregateAccount, "acc-1"))
	require.NoError(err)
	assert.Equal(2, version)
}

func TestDispatchMarkMissingTransfer(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	d, _, _ := newDispatcher()
	err := d.Dispatch(context.Background(), commands.MarkTransferCompleted{TransferID: "nope"})
	assert.ErrorIs(err, common.ErrTransferNotFound)
}

func TestDispatchUnknownCommand(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	d, _, _ := newDispatcher()
	err := d.Dispatch(context.Background(), bogusCommand{})
	assert.Error(err)
	assert.Contains(err.Error(), "no route")
}

// conflictingStore wraps a Store and fails the first few appends with a
// version conflict, simulating a lost optimistic-concurrency race.
type conflictingStore struct {
	eventstore.Store
	remaining int
}

func (s *conflictingStore) AppendToStream(
	ctx context.Context,
	streamID string,
	expectedVersion int,
	evts ...events.Event,
) error {
	if s.remaining > 0 {
		s.remaining--
		return eventstore.ErrVersionConflict
	}
	return s.Store.AppendToStream(ctx, streamID, expectedVersion, evts...)
}

func TestDispatchRetriesOnVersionConflict(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	inner := infraeventstore.NewWithMemory()
	store := &conflictingStore{Store: inner, remaining: 2}
	bus := infraeventbus.NewWithMemory(slog.Default())
	d := dispatcher.New(store, bus, slog.Default())
	ctx := context.Background()

	require.NoError(d.Dispatch(ctx, commands.CreateAccount{AccountID: "acc-1"}),
		"transient conflicts are retried away")

	_, version, err := inner.ReadStream(ctx, eventstore.StreamID(eventstore.AggregateAccount, "acc-1"))
	require.NoError(err)
	assert.Equal(1, version)
}

func TestDispatchGivesUpAfterRepeatedConflicts(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	store := &conflictingStore{Store: infraeventstore.NewWithMemory(), remaining: 100}
	bus := infraeventbus.NewWithMemory(slog.Default())
	d := dispatcher.New(store, bus, slog.Default())

	err := d.Dispatch(context.Background(), commands.CreateAccount{AccountID: "acc-1"})
	assert.ErrorIs(err, eventstore.ErrVersionConflict)
}

type bogusCommand struct{}

func (bogusCommand) CommandType() string { return "Bogus" }
func (bogusCommand) AggregateID() string { return "x" }
