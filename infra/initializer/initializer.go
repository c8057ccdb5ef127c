// Package initializer resolves the application's dependency graph from
// configuration: logger, event store, event bus, dispatcher, saga, services.
package initializer

import (
	"context"
	"fmt"
	"log/slog"

	infraeventbus "github.com/amirasaad/banksaga/infra/eventbus"
	infraeventstore "github.com/amirasaad/banksaga/infra/eventstore"
	"github.com/amirasaad/banksaga/pkg/config"
	"github.com/amirasaad/banksaga/pkg/dispatcher"
	"github.com/amirasaad/banksaga/pkg/eventbus"
	"github.com/amirasaad/banksaga/pkg/eventstore"
	"github.com/amirasaad/banksaga/pkg/saga"
	accountsvc "github.com/amirasaad/banksaga/pkg/service/account"
	transfersvc "github.com/amirasaad/banksaga/pkg/service/transfer"
)

// Deps holds every wired dependency the server needs.
type Deps struct {
	Logger          *slog.Logger
	Store           eventstore.Store
	Bus             eventbus.Bus
	Dispatcher      *dispatcher.Dispatcher
	Saga            *saga.TransferSaga
	AccountService  *accountsvc.Service
	TransferService *transfersvc.Service
}

// InitializeDependencies wires the full graph. The saga is registered on the
// bus before anything can publish, so no event is ever emitted without its
// orchestrator listening.
func InitializeDependencies(cfg *config.App) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	store, err := setupEventStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	bus, err := setupEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	d := dispatcher.New(store, bus, logger)
	transferSaga := saga.New(d, logger)
	transferSaga.Register(bus)

	if redisBus, ok := bus.(*infraeventbus.RedisEventBus); ok {
		redisBus.Start(context.Background())
	}

	return &Deps{
		Logger:          logger,
		Store:           store,
		Bus:             bus,
		Dispatcher:      d,
		Saga:            transferSaga,
		AccountService:  accountsvc.New(d, store, logger),
		TransferService: transfersvc.New(d, store, logger),
	}, nil
}

func setupEventStore(cfg *config.App, logger *slog.Logger) (eventstore.Store, error) {
	switch cfg.EventStore.Driver {
	case "memory":
		logger.Info("using in-memory event store")
		return infraeventstore.NewWithMemory(), nil
	case "postgres":
		logger.Info("using postgres event store")
		return infraeventstore.NewWithGorm(cfg.DB.Url)
	default:
		return nil, fmt.Errorf("unknown event store driver %q", cfg.EventStore.Driver)
	}
}

func setupEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.EventBus.Driver {
	case "memory":
		logger.Info("using in-memory event bus")
		return infraeventbus.NewWithMemory(logger), nil
	case "redis":
		logger.Info("using redis event bus", "stream", cfg.Redis.Stream)
		return infraeventbus.NewWithRedis(cfg.Redis.URL, cfg.Redis.Stream, cfg.Redis.Group, logger)
	case "kafka":
		logger.Info("using kafka event bus", "brokers", cfg.Kafka.Brokers)
		return infraeventbus.NewWithKafka(cfg.Kafka.Brokers, logger, &infraeventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.TopicPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", cfg.EventBus.Driver)
	}
}
