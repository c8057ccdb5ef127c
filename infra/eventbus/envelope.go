package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/banksaga/pkg/domain/events"
)

// envelope is the wire form shared by the Redis and Kafka buses: the event
// type tag travels next to the payload so consumers can decode without
// knowing the concrete type up front.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encodeEnvelope(e events.Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("event bus: marshal %q: %w", e.Type(), err)
	}
	data, err := json.Marshal(envelope{Type: e.Type().String(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("event bus: marshal envelope %q: %w", e.Type(), err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("event bus: unmarshal envelope: %w", err)
	}
	return events.Decode(events.EventType(env.Type), env.Payload)
}
