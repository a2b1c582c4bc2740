package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is where an entry is in its delivery lifecycle:
// PENDING -> PROCESSING -> SENT, with FAILED looping back through
// PROCESSING until MaxRetries is spent and the entry goes DEAD.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

var (
	errNotClaimable = errors.New("outbox entry is not pending or failed")
	errNotDead      = errors.New("only dead entries can be requeued")
)

// OutboxEntry is a serialized domain event queued for the broker
type OutboxEntry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry queues payload, the serialized form of event
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (e *OutboxEntry) transition(to OutboxStatus) {
	e.Status = to
	e.UpdatedAt = time.Now()
}

// MarkProcessing claims the entry for one delivery attempt
func (e *OutboxEntry) MarkProcessing() error {
	if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
		return errNotClaimable
	}
	e.transition(OutboxStatusProcessing)
	return nil
}

// MarkSent records a successful delivery
func (e *OutboxEntry) MarkSent() {
	e.transition(OutboxStatusSent)
	sentAt := e.UpdatedAt
	e.ProcessedAt = &sentAt
}

// MarkFailed records a failed attempt. The next attempt waits
// DefaultBaseBackoff doubled per previous failure; the attempt that spends
// the last retry moves the entry to DEAD instead.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	if e.RetryCount >= e.MaxRetries {
		e.transition(OutboxStatusDead)
		e.NextRetryAt = nil
		return
	}
	e.transition(OutboxStatusFailed)
	next := e.UpdatedAt.Add(DefaultBaseBackoff << (e.RetryCount - 1))
	e.NextRetryAt = &next
}

// Requeue gives a dead entry a fresh retry budget
func (e *OutboxEntry) Requeue() error {
	if !e.IsDead() {
		return errNotDead
	}
	e.transition(OutboxStatusPending)
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	return nil
}

// IsDead reports whether delivery was given up
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// OutboxRepository stores entries for the relay
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindDeliverable returns pending entries and failed entries due at now, oldest first
	FindDeliverable(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	// MarkProcessing claims entries atomically and returns only those this caller won
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}
