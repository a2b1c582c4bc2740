package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseDomainEvent
}

func TestNewOutboxEntry(t *testing.T) {
	aggID := uuid.New()
	evt := &testEvent{BaseDomainEvent: NewBaseDomainEvent("OrderPlaced", "Order", aggID)}

	entry := NewOutboxEntry(evt, []byte(`{"ok":true}`))

	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, "OrderPlaced", entry.EventType)
	assert.Equal(t, aggID, entry.AggregateID)
	assert.Equal(t, "Order", entry.AggregateType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("allowed from pending and failed", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusFailed} {
			entry := &OutboxEntry{Status: status}
			require.NoError(t, entry.MarkProcessing())
			assert.Equal(t, OutboxStatusProcessing, entry.Status)
		}
	})

	t.Run("rejected from other states", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusProcessing, OutboxStatusSent, OutboxStatusDead} {
			entry := &OutboxEntry{Status: status}
			assert.Error(t, entry.MarkProcessing())
		}
	})
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retry with backoff", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, MaxRetries: 3}

		before := time.Now()
		entry.MarkFailed("broker down")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "broker down", entry.LastError)
		require.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.NextRetryAt.After(before))
	})

	t.Run("backoff doubles per failure", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, MaxRetries: 5}
		entry.MarkFailed("one")
		assert.Equal(t, DefaultBaseBackoff, entry.NextRetryAt.Sub(entry.UpdatedAt))
		entry.MarkFailed("two")
		entry.MarkFailed("three")
		assert.Equal(t, 4*DefaultBaseBackoff, entry.NextRetryAt.Sub(entry.UpdatedAt))
	})

	t.Run("becomes dead after max retries", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, RetryCount: 2, MaxRetries: 3}

		entry.MarkFailed("still down")

		assert.True(t, entry.IsDead())
		assert.Nil(t, entry.NextRetryAt)
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing}
	entry.MarkSent()
	assert.Equal(t, OutboxStatusSent, entry.Status)
	assert.NotNil(t, entry.ProcessedAt)
}

func TestOutboxEntry_Requeue(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing, RetryCount: 4, MaxRetries: 5}
	assert.Error(t, entry.Requeue())

	entry.MarkFailed("broker down")
	require.True(t, entry.IsDead())
	require.NoError(t, entry.Requeue())

	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Empty(t, entry.LastError)
	assert.Nil(t, entry.NextRetryAt)
	require.NoError(t, entry.MarkProcessing())
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Product not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
