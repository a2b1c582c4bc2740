package shared

import "context"

// EventPublisher delivers serialized outbox entries to an external broker
type EventPublisher interface {
	// Publish sends one outbox entry; implementations must be safe to retry
	Publish(ctx context.Context, entry *OutboxEntry) error
	// Close flushes and releases broker resources
	Close() error
}

// OutboxEventSaver saves domain events to the outbox table. When ctx carries a
// transaction started by a Transactor the events are written inside it.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, events ...DomainEvent) error
}
