package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot adds the optimistic lock version and the events raised
// since the aggregate was loaded. Events are not stored on the aggregate's
// row; the application layer drains them into the outbox.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	events  []DomainEvent
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// Record queues an event for the outbox
func (a *BaseAggregateRoot) Record(e DomainEvent) {
	a.events = append(a.events, e)
}

// PendingEvents returns queued events in the order they were recorded
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.events
}

// ClearEvents empties the queue once the events are saved
func (a *BaseAggregateRoot) ClearEvents() {
	a.events = nil
}

// BumpVersion advances the lock version after a successful conditional write
func (a *BaseAggregateRoot) BumpVersion() {
	a.Version++
}
