package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer used for publishing
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes outbox entries to a topic. Messages are keyed by
// aggregate ID so events of one order stay ordered within a partition.
type KafkaPublisher struct {
	writer     MessageWriter
	serializer *EventSerializer
	timeout    time.Duration
}

// NewKafkaPublisher creates a publisher writing to topic on brokers
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           timeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Warn(fmt.Sprintf(msg, args...), zap.String("component", "kafka"))
		}),
	}
	return NewKafkaPublisherWithWriter(w, timeout)
}

// NewKafkaPublisherWithWriter creates a publisher on an existing writer
func NewKafkaPublisherWithWriter(w MessageWriter, timeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{writer: w, serializer: NewEventSerializer(), timeout: timeout}
}

// Publish implements shared.EventPublisher
func (p *KafkaPublisher) Publish(ctx context.Context, entry *shared.OutboxEntry) error {
	body, err := p.serializer.Envelope(entry)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(entry.AggregateID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(entry.EventType)},
			{Key: "event_id", Value: []byte(entry.EventID.String())},
		},
		Time: entry.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", entry.EventType, err)
	}
	return nil
}

// Close flushes pending messages
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs entries instead of sending them. It is used when no
// broker is configured so the outbox still drains.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements shared.EventPublisher
func (p *LogPublisher) Publish(_ context.Context, entry *shared.OutboxEntry) error {
	p.logger.Info("domain event",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.ByteString("payload", entry.Payload),
	)
	return nil
}

// Close implements shared.EventPublisher
func (p *LogPublisher) Close() error {
	return nil
}

var (
	_ shared.EventPublisher = (*KafkaPublisher)(nil)
	_ shared.EventPublisher = (*LogPublisher)(nil)
)
