package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// Envelope is the broker message body. Data holds the event as it was
// serialized into the outbox.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

// EventSerializer handles JSON serialization of domain events
type EventSerializer struct{}

// NewEventSerializer creates a new event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{}
}

// Serialize serializes a domain event to JSON bytes
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Envelope wraps an outbox entry for publishing
func (s *EventSerializer) Envelope(entry *shared.OutboxEntry) ([]byte, error) {
	if !json.Valid(entry.Payload) {
		return nil, fmt.Errorf("outbox entry %s has an invalid payload", entry.ID)
	}
	return json.Marshal(Envelope{
		ID:            entry.EventID,
		Type:          entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		OccurredAt:    entry.CreatedAt,
		Data:          json.RawMessage(entry.Payload),
	})
}
