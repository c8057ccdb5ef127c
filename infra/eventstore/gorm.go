package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// eventRow is the persisted form of one event: a JSON envelope keyed by
// stream id and stream-local version. The unique index on
// (stream_id, version) is what turns a lost optimistic-concurrency race into
// a duplicate-key error instead of a corrupted stream.
type eventRow struct {
	ID        uint   `gorm:"primaryKey"`
	StreamID  string `gorm:"size:128;uniqueIndex:idx_stream_version;not null"`
	Version   int    `gorm:"uniqueIndex:idx_stream_version;not null"`
	EventType string `gorm:"size:64;not null"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (eventRow) TableName() string { return "events" }

// GormStore persists event streams in Postgres via GORM.
type GormStore struct {
	db *gorm.DB
}

// NewWithGorm opens a Postgres-backed event store and migrates its schema.
func NewWithGorm(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm event store: open: %w", err)
	}
	if err := db.AutoMigrate(&eventRow{}); err != nil {
		return nil, fmt.Errorf("gorm event store: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// AppendToStream inserts the events as consecutive versions starting at
// expectedVersion+1, in one transaction. A concurrent writer that got there
// first trips the (stream_id, version) unique index and the whole append
// rolls back with ErrVersionConflict.
func (s *GormStore) AppendToStream(
	ctx context.Context,
	streamID string,
	expectedVersion int,
	evts ...events.Event,
) error {
	if len(evts) == 0 {
		return nil
	}
	rows := make([]eventRow, 0, len(evts))
	for i, e := range evts {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("gorm event store: marshal %q: %w", e.Type(), err)
		}
		rows = append(rows, eventRow{
			StreamID:  streamID,
			Version:   expectedVersion + i + 1,
			EventType: e.Type().String(),
			Payload:   payload,
		})
	}
	err := s.db.WithContext(ctx).Create(&rows).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return eventstore.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("gorm event store: append: %w", err)
	}
	return nil
}

// ReadStream loads and decodes the full stream in version order.
func (s *GormStore) ReadStream(
	ctx context.Context,
	streamID string,
) ([]events.Event, int, error) {
	var rows []eventRow
	err := s.db.WithContext(ctx).
		Where("stream_id = ?", streamID).
		Order("version ASC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm event store: read: %w", err)
	}
	out := make([]events.Event, 0, len(rows))
	for _, row := range rows {
		e, err := events.Decode(events.EventType(row.EventType), row.Payload)
		if err != nil {
			return nil, 0, fmt.Errorf("gorm event store: stream %q version %d: %w",
				streamID, row.Version, err)
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

var _ eventstore.Store = (*GormStore)(nil)
