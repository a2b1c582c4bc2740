package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Delivery outcomes reported to a DeliveryRecorder
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeDead   = "dead"
)

// OutboxProcessorConfig tunes the relay
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxProcessorConfig polls every 5s and keeps sent rows for a week
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		MaxRetries:       shared.DefaultMaxRetries,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// DeliveryRecorder counts relay outcomes per event type
type DeliveryRecorder interface {
	OutboxDelivery(eventType, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) OutboxDelivery(string, string) {}

// ProcessorOption customizes an OutboxProcessor
type ProcessorOption func(*OutboxProcessor)

// WithDeliveryRecorder reports every delivery attempt to r
func WithDeliveryRecorder(r DeliveryRecorder) ProcessorOption {
	return func(p *OutboxProcessor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// OutboxProcessor relays outbox entries to the broker in the background
type OutboxProcessor struct {
	repo      shared.OutboxRepository
	publisher shared.EventPublisher
	config    OutboxProcessorConfig
	recorder  DeliveryRecorder
	logger    *zap.Logger
}

// NewOutboxProcessor fills zero config values with the defaults
func NewOutboxProcessor(
	repo shared.OutboxRepository,
	publisher shared.EventPublisher,
	config OutboxProcessorConfig,
	logger *zap.Logger,
	opts ...ProcessorOption,
) *OutboxProcessor {
	defaults := DefaultOutboxProcessorConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	p := &OutboxProcessor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		recorder:  noopRecorder{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls the outbox until ctx is cancelled. It always returns nil so a
// stopped relay never tears down the HTTP server sharing its errgroup.
func (p *OutboxProcessor) Run(ctx context.Context) error {
	p.logger.Info("Outbox relay started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)

	var g errgroup.Group
	g.Go(func() error {
		every(ctx, p.config.PollInterval, func() { p.ProcessBatch(ctx) })
		return nil
	})
	if p.config.CleanupEnabled {
		g.Go(func() error {
			every(ctx, p.config.CleanupInterval, func() { p.Cleanup(ctx) })
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("Outbox relay stopped")
	return nil
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// ProcessBatch claims one batch of deliverable entries and publishes the
// ones this relay won. It returns how many were published.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) int {
	entries, err := p.repo.FindDeliverable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("Failed to load deliverable outbox entries", zap.Error(err))
		return 0
	}
	if len(entries) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("Failed to claim outbox entries", zap.Error(err))
		return 0
	}

	sent := 0
	for _, entry := range claimed {
		if p.deliver(ctx, entry) {
			sent++
		}
	}
	return sent
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	if p.config.MaxRetries > 0 {
		entry.MaxRetries = p.config.MaxRetries
	}
	log := p.logger.With(
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)

	if err := p.publisher.Publish(ctx, entry); err != nil {
		entry.MarkFailed(err.Error())
		outcome := OutcomeFailed
		if entry.IsDead() {
			outcome = OutcomeDead
			log.Warn("Outbox event moved to dead letters",
				zap.String("aggregate_type", entry.AggregateType),
				zap.String("aggregate_id", entry.AggregateID.String()),
				zap.Int("retry_count", entry.RetryCount),
				zap.String("last_error", entry.LastError),
			)
		} else {
			log.Error("Failed to publish outbox event", zap.Int("retry_count", entry.RetryCount), zap.Error(err))
		}
		p.recorder.OutboxDelivery(entry.EventType, outcome)
		if err := p.repo.Update(ctx, entry); err != nil {
			log.Error("Failed to record outbox failure", zap.Error(err))
		}
		return false
	}

	entry.MarkSent()
	p.recorder.OutboxDelivery(entry.EventType, OutcomeSent)
	if err := p.repo.Update(ctx, entry); err != nil {
		// the broker has it; a later poll may publish it again
		log.Error("Failed to mark outbox entry sent", zap.Error(err))
		return true
	}
	log.Debug("Outbox event published")
	return true
}

// Cleanup removes sent entries older than the retention period
func (p *OutboxProcessor) Cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("Failed to clean up outbox", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("Cleaned up sent outbox entries", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}
