package event

import (
	"context"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// OutboxWriter serializes domain events into the outbox. When ctx carries a
// transaction the rows are written inside it, atomically with the aggregate.
type OutboxWriter struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
}

// NewOutboxWriter creates a new outbox writer
func NewOutboxWriter(repo shared.OutboxRepository, serializer *EventSerializer) *OutboxWriter {
	return &OutboxWriter{
		repo:       repo,
		serializer: serializer,
	}
}

// SaveEvents implements shared.OutboxEventSaver
func (w *OutboxWriter) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := w.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	return w.repo.Save(ctx, entries...)
}

// Ensure OutboxWriter implements OutboxEventSaver
var _ shared.OutboxEventSaver = (*OutboxWriter)(nil)
