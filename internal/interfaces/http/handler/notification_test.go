package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendNewsletterConfirmation(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockNotificationService) SendOrderConfirmation(ctx context.Context, details notification.OrderDetails) error {
	return m.Called(ctx, details).Error(0)
}

func setupNotificationRouter(svc *MockNotificationService) *gin.Engine {
	h := NewNotificationHandler(svc)
	router := gin.New()
	router.POST("/api/newsletter/subscribe", h.Subscribe)
	router.POST("/api/sendOrderEmail", asUser(uuid.New()), h.SendOrderEmail)
	router.POST("/anon/sendOrderEmail", h.SendOrderEmail)
	return router
}

func TestNotificationHandler_Subscribe(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc)

	svc.On("SendNewsletterConfirmation", mock.Anything, "reader@example.com").Return(nil).Once()
	svc.On("SendNewsletterConfirmation", mock.Anything, "nope").
		Return(shared.NewDomainError("INVALID_EMAIL", "Please enter a valid email")).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "reader@example.com"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "nope"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_EMAIL", errorCode(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", map[string]string{}))
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	svc.AssertExpectations(t)
}

func TestNotificationHandler_SendOrderEmail(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc)
	addr := fakeAddress()

	var captured notification.OrderDetails
	svc.On("SendOrderConfirmation", mock.Anything, mock.AnythingOfType("notification.OrderDetails")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(notification.OrderDetails) }).
		Return(nil).Once()

	body := map[string]any{
		"orderId": "ord-1",
		"items":   []map[string]any{{"name": "Linen Shirt", "size": "M", "quantity": 2, "price": "49.90"}},
		"address": addr,
		"amount":  "109.80",
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/sendOrderEmail", body))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, valueobject.DefaultCurrency, captured.Currency)
	assert.True(t, captured.Amount.Equal(decimal.RequireFromString("109.80")))
	assert.Equal(t, addr, captured.Address)
	assert.Equal(t, 2, captured.Items[0].Quantity)
	svc.AssertExpectations(t)
}

func TestNotificationHandler_SendOrderEmailErrors(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/sendOrderEmail", map[string]any{"address": fakeAddress(), "amount": 10}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/anon/sendOrderEmail", map[string]any{}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.On("SendOrderConfirmation", mock.Anything, mock.Anything).
		Return(shared.NewDomainError("EMAIL_DELIVERY_FAILED", "Failed to send email. Please try again.")).Once()
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/sendOrderEmail", map[string]any{
		"items":    []map[string]any{{"name": "Tee", "size": "S", "quantity": 1, "price": 10}},
		"address":  fakeAddress(),
		"amount":   10,
		"currency": "USD",
	}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to send email. Please try again.", decodeResponse(t, rec).Error.Message)

	svc.AssertExpectations(t)
}
