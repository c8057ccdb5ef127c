// Package account provides the application-facing façade over account
// commands and queries. Commands go through the dispatcher; queries replay
// the account's stream on demand.
package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amirasaad/banksaga/pkg/commands"
	"github.com/amirasaad/banksaga/pkg/dispatcher"
	"github.com/amirasaad/banksaga/pkg/domain/account"
	"github.com/amirasaad/banksaga/pkg/domain/common"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// Service exposes account operations to the transport layer.
type Service struct {
	dispatcher *dispatcher.Dispatcher
	store      eventstore.Store
	logger     *slog.Logger
}

// New creates an account Service.
func New(d *dispatcher.Dispatcher, store eventstore.Store, logger *slog.Logger) *Service {
	return &Service{
		dispatcher: d,
		store:      store,
		logger:     logger.With("service", "account"),
	}
}

// CreateAccount opens a new account and returns its id.
func (s *Service) CreateAccount(ctx context.Context, overdraftLimit int64) (string, error) {
	id := uuid.NewString()
	if err := s.dispatcher.Dispatch(ctx, commands.CreateAccount{
		AccountID:      id,
		OverdraftLimit: overdraftLimit,
	}); err != nil {
		return "", err
	}
	s.logger.Info("account created", "account_id", id, "overdraft_limit", overdraftLimit)
	return id, nil
}

// Deposit adds money to an account.
func (s *Service) Deposit(ctx context.Context, accountID string, amount int64) error {
	return s.dispatcher.Dispatch(ctx, commands.Deposit{AccountID: accountID, Amount: amount})
}

// Withdraw takes money out of an account. Insufficient funds are not an
// error: the command is accepted and changes nothing.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount int64) error {
	return s.dispatcher.Dispatch(ctx, commands.Withdraw{AccountID: accountID, Amount: amount})
}

// Get replays the account's stream and returns its current state.
func (s *Service) Get(ctx context.Context, accountID string) (account.Account, error) {
	streamID := eventstore.StreamID(eventstore.AggregateAccount, accountID)
	history, version, err := s.store.ReadStream(ctx, streamID)
	if err != nil {
		return account.Account{}, err
	}
	if version == 0 {
		return account.Account{}, common.ErrAccountNotFound
	}
	return account.Replay(history), nil
}
