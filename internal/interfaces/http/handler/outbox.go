package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	outboxapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/event"
)

// OutboxService is the dead-letter console used by OutboxHandler
type OutboxService interface {
	Stats(ctx context.Context) (*outboxapp.OutboxStatsDTO, error)
	DeadLetters(ctx context.Context, filter outboxapp.OutboxFilter) (*outboxapp.OutboxListResult, error)
	Entry(ctx context.Context, id uuid.UUID) (*outboxapp.OutboxEntryDTO, error)
	Retry(ctx context.Context, id uuid.UUID) (*outboxapp.OutboxEntryDTO, error)
	RetryAll(ctx context.Context) (int64, error)
}

// OutboxHandler serves the admin view of undelivered events
type OutboxHandler struct {
	BaseHandler
	outbox OutboxService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(svc OutboxService) *OutboxHandler {
	return &OutboxHandler{outbox: svc}
}

// Stats handles GET /api/admin/outbox/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.outbox.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// DeadLetters handles GET /api/admin/outbox/dead
func (h *OutboxHandler) DeadLetters(c *gin.Context) {
	var filter outboxapp.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.outbox.DeadLetters(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Entry handles GET /api/admin/outbox/entries/:id
func (h *OutboxHandler) Entry(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}
	entry, err := h.outbox.Entry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Retry handles POST /api/admin/outbox/dead/:id/retry
func (h *OutboxHandler) Retry(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}
	entry, err := h.outbox.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAll handles POST /api/admin/outbox/dead/retry
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	count, err := h.outbox.RetryAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"requeued": count})
}

func (h *OutboxHandler) entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid outbox entry id")
		return uuid.Nil, false
	}
	return id, true
}
