package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	outboxapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/event"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

type MockOutboxService struct {
	mock.Mock
}

func (m *MockOutboxService) Stats(ctx context.Context) (*outboxapp.OutboxStatsDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outboxapp.OutboxStatsDTO), args.Error(1)
}

func (m *MockOutboxService) DeadLetters(ctx context.Context, filter outboxapp.OutboxFilter) (*outboxapp.OutboxListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outboxapp.OutboxListResult), args.Error(1)
}

func (m *MockOutboxService) entry(args mock.Arguments) (*outboxapp.OutboxEntryDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outboxapp.OutboxEntryDTO), args.Error(1)
}

func (m *MockOutboxService) Entry(ctx context.Context, id uuid.UUID) (*outboxapp.OutboxEntryDTO, error) {
	return m.entry(m.Called(ctx, id))
}

func (m *MockOutboxService) Retry(ctx context.Context, id uuid.UUID) (*outboxapp.OutboxEntryDTO, error) {
	return m.entry(m.Called(ctx, id))
}

func (m *MockOutboxService) RetryAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setupOutboxRouter(svc *MockOutboxService) *gin.Engine {
	h := NewOutboxHandler(svc)
	router := gin.New()
	admin := router.Group("/api/admin/outbox", asAdmin())
	admin.GET("/stats", h.Stats)
	admin.GET("/dead", h.DeadLetters)
	admin.GET("/entries/:id", h.Entry)
	admin.POST("/dead/:id/retry", h.Retry)
	admin.POST("/dead/retry", h.RetryAll)
	return router
}

func TestOutboxHandler_Stats(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)
	svc.On("Stats", mock.Anything).Return(&outboxapp.OutboxStatsDTO{Pending: 2, Dead: 1, Total: 3}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/outbox/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got outboxapp.OutboxStatsDTO
	decodeData(t, rec, &got)
	assert.Equal(t, int64(1), got.Dead)
	assert.Equal(t, int64(3), got.Total)
}

func TestOutboxHandler_DeadLetters(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)
	svc.On("DeadLetters", mock.Anything, outboxapp.OutboxFilter{Page: 2, PageSize: 10}).
		Return(&outboxapp.OutboxListResult{Entries: []outboxapp.OutboxEntryDTO{}, Total: 11, Page: 2, PageSize: 10, TotalPages: 2}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/outbox/dead?page=2&page_size=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got outboxapp.OutboxListResult
	decodeData(t, rec, &got)
	assert.Equal(t, 2, got.TotalPages)
	svc.AssertExpectations(t)
}

func TestOutboxHandler_DeadLetters_BadPageSize(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/outbox/dead?page_size=1000", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "DeadLetters", mock.Anything, mock.Anything)
}

func TestOutboxHandler_Entry(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)
	id := uuid.New()
	svc.On("Entry", mock.Anything, id).Return(&outboxapp.OutboxEntryDTO{ID: id, Status: "DEAD"}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/outbox/entries/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got outboxapp.OutboxEntryDTO
	decodeData(t, rec, &got)
	assert.Equal(t, id, got.ID)
}

func TestOutboxHandler_Retry(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "requeued", path: id.String(), wantCode: http.StatusOK},
		{name: "unknown entry", path: id.String(), err: shared.NewDomainError("OUTBOX_ENTRY_NOT_FOUND", "Outbox entry not found"), wantCode: http.StatusNotFound, wantErr: "OUTBOX_ENTRY_NOT_FOUND"},
		{name: "not dead", path: id.String(), err: shared.NewDomainError("INVALID_STATUS", "only dead entries can be requeued"), wantCode: http.StatusBadRequest, wantErr: "INVALID_STATUS"},
		{name: "bad id", path: "not-a-uuid", wantCode: http.StatusBadRequest, wantErr: "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOutboxService)
			router := setupOutboxRouter(svc)
			if tt.path == id.String() {
				if tt.err != nil {
					svc.On("Retry", mock.Anything, id).Return(nil, tt.err).Once()
				} else {
					svc.On("Retry", mock.Anything, id).Return(&outboxapp.OutboxEntryDTO{ID: id, Status: "PENDING"}, nil).Once()
				}
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/outbox/dead/"+tt.path+"/retry", nil))

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOutboxHandler_RetryAll(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)
	svc.On("RetryAll", mock.Anything).Return(int64(4), nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/outbox/dead/retry", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"requeued":4}}`, rec.Body.String())
}

func TestOutboxHandler_RetryAll_StoreDown(t *testing.T) {
	svc := new(MockOutboxService)
	router := setupOutboxRouter(svc)
	svc.On("RetryAll", mock.Anything).Return(int64(0), errors.New("connection refused")).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/outbox/dead/retry", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
