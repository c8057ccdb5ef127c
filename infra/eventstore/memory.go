package eventstore

import (
	"context"
	"sync"

	"github.com/amirasaad/banksaga/pkg/domain/events"
	"github.com/amirasaad/banksaga/pkg/eventstore"
)

// MemoryStore is an in-memory implementation of the event store, used in
// tests and for local development.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]events.Event
}

// NewWithMemory creates a new in-memory event store.
func NewWithMemory() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]events.Event)}
}

// AppendToStream appends events iff the stream holds exactly expectedVersion
// events.
func (s *MemoryStore) AppendToStream(
	_ context.Context,
	streamID string,
	expectedVersion int,
	evts ...events.Event,
) error {
	if len(evts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stream := s.streams[streamID]
	if len(stream) != expectedVersion {
		return eventstore.ErrVersionConflict
	}
	s.streams[streamID] = append(stream, evts...)
	return nil
}

// ReadStream returns a copy of the stream in append order and its version.
func (s *MemoryStore) ReadStream(
	_ context.Context,
	streamID string,
) ([]events.Event, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.streams[streamID]
	out := make([]events.Event, len(stream))
	copy(out, stream)
	return out, len(stream), nil
}

var _ eventstore.Store = (*MemoryStore)(nil)
