//go:build kafka
// +build kafka

package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventbus"
)

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	GroupID     string
	TopicPrefix string
}

// DefaultKafkaEventBusConfig returns default configuration for KafkaEventBus.
func DefaultKafkaEventBusConfig() *KafkaEventBusConfig {
	return &KafkaEventBusConfig{
		GroupID:     "banksaga",
		TopicPrefix: "banksaga.events",
	}
}

// KafkaEventBus implements the Bus interface on Kafka. Each event type gets
// its own topic under the prefix; messages are keyed by aggregate id and
// hash-balanced so one stream's events always land on one partition,
// preserving per-source-stream order across consumers.
type KafkaEventBus struct {
	brokers []string
	writer  *kafka.Writer
	config  *KafkaEventBusConfig
	logger  *slog.Logger

	handlersMtx sync.RWMutex
	handlers    map[events.EventType][]eventbus.HandlerFunc

	readersMtx sync.Mutex
	readers    map[events.EventType]*kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a new Kafka-backed event bus.
// brokers: comma-separated broker list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(
	brokers string,
	logger *slog.Logger,
	config *KafkaEventBusConfig,
) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if config == nil {
		config = DefaultKafkaEventBusConfig()
	}
	if config.GroupID == "" {
		config.GroupID = "banksaga"
	}
	if strings.TrimSpace(config.TopicPrefix) == "" {
		config.TopicPrefix = "banksaga.events"
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventBus{
		brokers:  parsed,
		writer:   writer,
		config:   config,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		readers:  make(map[events.EventType]*kafka.Reader),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Register registers a handler and starts a consumer for the event type's
// topic on first registration.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.readersMtx.Lock()
	defer b.readersMtx.Unlock()
	if _, ok := b.readers[eventType]; ok {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.brokers,
		GroupID:  b.config.GroupID,
		Topic:    b.topic(eventType),
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	b.readers[eventType] = reader
	b.wg.Add(1)
	go b.consume(reader, eventType)
}

// Emit publishes an event to its type's topic, keyed by aggregate id.
func (b *KafkaEventBus) Emit(ctx context.Context, e events.Event) error {
	data, err := encodeEnvelope(e)
	if err != nil {
		return err
	}
	err = b.writer.WriteMessages(ctx, kafka.Message{
		Topic: b.topic(e.Type()),
		Key:   []byte(e.AggregateID()),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("kafka event bus: write failed: %w", err)
	}
	return nil
}

// Close stops all consumers and the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

func (b *KafkaEventBus) consume(reader *kafka.Reader, eventType events.EventType) {
	defer b.wg.Done()
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			b.logger.Error("fetch failed", "topic", reader.Config().Topic, "error", err)
			time.Sleep(time.Second)
			continue
		}
		e, err := decodeEnvelope(msg.Value)
		if err != nil {
			b.logger.Error("failed to decode event", "topic", msg.Topic, "error", err)
			_ = reader.CommitMessages(b.ctx, msg)
			continue
		}

		b.handlersMtx.RLock()
		handlers := append([]eventbus.HandlerFunc{}, b.handlers[e.Type()]...)
		b.handlersMtx.RUnlock()

		failed := false
		for _, handler := range handlers {
			if err := handler(b.ctx, e); err != nil {
				b.logger.Error("event handler failed",
					"type", e.Type(), "aggregate_id", e.AggregateID(), "error", err)
				failed = true
				break
			}
		}
		if failed {
			// Uncommitted: the message is redelivered after rebalance.
			continue
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("commit failed", "topic", msg.Topic, "error", err)
		}
	}
}

func (b *KafkaEventBus) topic(eventType events.EventType) string {
	return b.config.TopicPrefix + "." + strings.ToLower(string(eventType))
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, broker := range strings.Split(brokers, ",") {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
