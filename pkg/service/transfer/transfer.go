// Package transfer provides the application-facing façade over transfer
// commands and queries. Creating a transfer only starts the workflow; the
// saga drives it to COMPLETED or FAILED asynchronously, and the outcome is
// observed by querying the transfer's stream.
package transfer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/dispatcher"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/domain/transfer"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// Service exposes transfer operations to the transport layer.
type Service struct {
	dispatcher *dispatcher.Dispatcher
	store      eventstore.Store
	logger     *slog.Logger
}

// New creates a transfer Service.
func New(d *dispatcher.Dispatcher, store eventstore.Store, logger *slog.Logger) *Service {
	return &Service{
		dispatcher: d,
		store:      store,
		logger:     logger.With("service", "transfer"),
	}
}

// CreateTransfer starts a transfer workflow and returns the transfer id.
// There is no synchronous success or failure: callers poll Get for the
// terminal status.
func (s *Service) CreateTransfer(
	ctx context.Context,
	sourceAccountID, destinationAccountID string,
	amount int64,
) (string, error) {
	id := uuid.NewString()
	if err := s.dispatcher.Dispatch(ctx, commands.CreateTransfer{
		TransferID:           id,
		SourceAccountID:      sourceAccountID,
		DestinationAccountID: destinationAccountID,
		Amount:               amount,
	}); err != nil {
		return "", err
	}
	s.logger.Info("transfer requested",
		"transfer_id", id,
		"source", sourceAccountID,
		"destination", destinationAccountID,
		"amount", amount)
	return id, nil
}

// Get replays the transfer's stream and returns its current state.
func (s *Service) Get(ctx context.Context, transferID string) (transfer.Transfer, error) {
	streamID := eventstore.StreamID(eventstore.AggregateTransfer, transferID)
	history, version, err := s.store.ReadStream(ctx, streamID)
	if err != nil {
		return transfer.Transfer{}, err
	}
	if version == 0 {
		return transfer.Transfer{}, common.ErrTransferNotFound
	}
	return transfer.Replay(history), nil
}
