// Package event exposes the outbox dead-letter queue to administrators.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var errEntryNotFound = shared.NewDomainError("OUTBOX_ENTRY_NOT_FOUND", "Outbox entry not found")

// OutboxStore is the slice of the outbox repository the console needs
type OutboxStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error)
	FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error)
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
	Update(ctx context.Context, entry *shared.OutboxEntry) error
}

// OutboxService lets an admin inspect and requeue events the relay gave up on
type OutboxService struct {
	store  OutboxStore
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(store OutboxStore, logger *zap.Logger) *OutboxService {
	return &OutboxService{store: store, logger: logger}
}

// OutboxEntryDTO is an outbox row without its payload
type OutboxEntryDTO struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OutboxFilter pages the dead-letter listing
type OutboxFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OutboxListResult is one page of dead entries
type OutboxListResult struct {
	Entries    []OutboxEntryDTO `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// OutboxStatsDTO counts entries per delivery state
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// DeadLetters lists dead entries, most recently failed first
func (s *OutboxService) DeadLetters(ctx context.Context, filter OutboxFilter) (*OutboxListResult, error) {
	page := max(filter.Page, 1)
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	entries, total, err := s.store.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]OutboxEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = toOutboxEntryDTO(e)
	}
	return &OutboxListResult{
		Entries:    out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Entry returns a single outbox entry
func (s *OutboxService) Entry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// Retry puts one dead entry back in the relay queue
func (s *OutboxService) Retry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Requeue(); err != nil {
		return nil, shared.NewDomainError("INVALID_STATUS", err.Error())
	}
	if err := s.store.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Dead outbox entry requeued",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
	)
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAll requeues every dead entry and reports how many were moved.
// Requeued rows leave the dead set, so the first page is read until it
// comes back empty or nothing on it could be moved.
func (s *OutboxService) RetryAll(ctx context.Context) (int64, error) {
	var count int64
	for {
		entries, _, err := s.store.FindDead(ctx, 1, maxPageSize)
		if err != nil {
			return count, err
		}
		if len(entries) == 0 {
			break
		}

		moved := 0
		for _, entry := range entries {
			if err := entry.Requeue(); err != nil {
				continue
			}
			if err := s.store.Update(ctx, entry); err != nil {
				s.logger.Error("Failed to requeue outbox entry", zap.String("id", entry.ID.String()), zap.Error(err))
				continue
			}
			moved++
		}
		count += int64(moved)
		if moved == 0 || len(entries) < maxPageSize {
			break
		}
	}

	s.logger.Info("Dead outbox entries requeued", zap.Int64("count", count))
	return count, nil
}

// Stats counts entries in each delivery state
func (s *OutboxService) Stats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

func (s *OutboxService) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errEntryNotFound
	}
	return entry, nil
}

func toOutboxEntryDTO(e *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
