package eventstore_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventstore "github.com/amirasaad/banksaga/infra/eventstore"
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

func TestReadMissingStream(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	store := infraeventstore.NewWithMemory()
	history, version, err := store.ReadStream(context.Background(), "account:nope")
	require.NoError(err, "a missing stream reads as empty, not as an error")
	assert.Empty(history)
	assert.Equal(0, version)
}

func TestAppendAndRead(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	store := infraeventstore.NewWithMemory()
	ctx := context.Background()
	streamID := eventstore.StreamID(eventstore.AggregateAccount, "acc-1")

	require.NoError(store.AppendToStream(ctx, streamID, 0,
		events.AccountCreatedEvent{ID: "acc-1", OverdraftLimit: 100}))
	require.NoError(store.AppendToStream(ctx, streamID, 1,
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 50},
		events.MoneyWithdrawnEvent{ID: "acc-1", Amount: 20}))

	history, version, err := store.ReadStream(ctx, streamID)
	require.NoError(err)
	assert.Equal(3, version)
	require.Len(history, 3)
	assert.Equal(events.EventTypeAccountCreated, history[0].Type())
	assert.Equal(events.EventTypeMoneyDeposited, history[1].Type())
	assert.Equal(events.EventTypeMoneyWithdrawn, history[2].Type())
}

func TestAppendVersionConflict(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	store := infraeventstore.NewWithMemory()
	ctx := context.Background()
	streamID := eventstore.StreamID(eventstore.AggregateAccount, "acc-1")

	require.NoError(store.AppendToStream(ctx, streamID, 0,
		events.AccountCreatedEvent{ID: "acc-1"}))

	// A writer that read version 0 before the first append lost the race.
	err := store.AppendToStream(ctx, streamID, 0,
		events.MoneyDepositedEvent{ID: "acc-1", Amount: 50})
	assert.ErrorIs(err, eventstore.ErrVersionConflict)

	// Streams are independent: the same expected version works elsewhere.
	other := eventstore.StreamID(eventstore.AggregateAccount, "acc-2")
	assert.NoError(store.AppendToStream(ctx, other, 0,
		events.AccountCreatedEvent{ID: "acc-2"}))
}

func TestReadReturnsCopy(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	store := infraeventstore.NewWithMemory()
	ctx := context.Background()
	streamID := eventstore.StreamID(eventstore.AggregateTransfer, "tx-1")

	require.NoError(store.AppendToStream(ctx, streamID, 0,
		events.TransferCreatedEvent{TransferID: "tx-1", SourceAccountID: "a", DestinationAccountID: "b", Amount: 1}))

	first, _, err := store.ReadStream(ctx, streamID)
	require.NoError(err)
	first[0] = events.TransferFailedEvent{TransferID: "tx-1"}

	second, _, err := store.ReadStream(ctx, streamID)
	require.NoError(err)
	assert.Equal(events.EventTypeTransferCreated, second[0].Type(),
		"mutating a read result must not affect the stored stream")
}
