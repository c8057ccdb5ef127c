package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventbus"
)

// RedisEventBus implements the Bus interface on Redis Streams. One stream
// carries all events; a consumer group gives at-least-once delivery, and
// per-source-stream order holds because each publisher appends its events in
// order and XREADGROUP hands entries out in stream order.
type RedisEventBus struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	logger   *slog.Logger

	handlersMtx sync.RWMutex
	handlers    map[events.EventType][]eventbus.HandlerFunc

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g. "redis://localhost:6379").
func NewWithRedis(url, stream, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || stream == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: url, stream, and group are required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	bus := &RedisEventBus{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "redis"),
	}

	_ = client.XGroupCreateMkStream(context.Background(), stream, group, "0")
	return bus, nil
}

// Register registers a handler for a specific event type.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	defer b.handlersMtx.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to the Redis stream.
func (b *RedisEventBus) Emit(ctx context.Context, e events.Event) error {
	data, err := encodeEnvelope(e)
	if err != nil {
		return err
	}
	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{"event": string(data)},
	}).Result()
	if err != nil {
		return fmt.Errorf("redis event bus: xadd failed: %w", err)
	}
	return nil
}

// Start launches the consumer loop. Events are acked only after every
// handler succeeded, so a crashed consumer redelivers.
func (b *RedisEventBus) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	b.wg.Add(1)
	go b.consume(ctx)
}

// Close stops the consumer loop and releases the client.
func (b *RedisEventBus) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	return b.client.Close()
}

func (b *RedisEventBus) consume(ctx context.Context) {
	defer b.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    16,
			Block:    2 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Error("xreadgroup failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		for _, s := range streams {
			for _, msg := range s.Messages {
				b.handleMessage(ctx, msg)
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(ctx context.Context, msg redis.XMessage) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.logger.Warn("skipping malformed stream entry", "id", msg.ID)
		_ = b.client.XAck(ctx, b.stream, b.group, msg.ID).Err()
		return
	}
	e, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "id", msg.ID, "error", err)
		_ = b.client.XAck(ctx, b.stream, b.group, msg.ID).Err()
		return
	}

	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[e.Type()]...)
	b.handlersMtx.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			b.logger.Error("event handler failed",
				"type", e.Type(), "aggregate_id", e.AggregateID(), "error", err)
			// Left unacked: the entry stays pending and is redelivered.
			return
		}
	}
	if err := b.client.XAck(ctx, b.stream, b.group, msg.ID).Err(); err != nil {
		b.logger.Error("xack failed", "id", msg.ID, "error", err)
	}
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
