package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
)

// NotificationService sends the storefront's transactional email
type NotificationService interface {
	SendNewsletterConfirmation(ctx context.Context, email string) error
	SendOrderConfirmation(ctx context.Context, details notification.OrderDetails) error
}

// NotificationHandler serves the newsletter and order email endpoints
type NotificationHandler struct {
	BaseHandler
	mail NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{mail: svc}
}

// SubscribeRequest is the newsletter form
type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// OrderEmailRequest is the order confirmation payload sent after checkout
type OrderEmailRequest struct {
	OrderID  string                   `json:"orderId"`
	Name     string                   `json:"name"`
	Items    []notification.OrderLine `json:"items" binding:"required,min=1,dive"`
	Address  valueobject.Address      `json:"address"`
	Amount   decimal.Decimal          `json:"amount"`
	Currency string                   `json:"currency"`
}

// Subscribe handles POST /api/newsletter/subscribe
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.mail.SendNewsletterConfirmation(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Subscription confirmed. Check your inbox."})
}

// SendOrderEmail handles POST /api/sendOrderEmail
func (h *NotificationHandler) SendOrderEmail(c *gin.Context) {
	if _, ok := h.RequireUser(c); !ok {
		return
	}
	var req OrderEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.NormalizeCurrency(req.Currency)
	}
	err := h.mail.SendOrderConfirmation(c.Request.Context(), notification.OrderDetails{
		OrderID:  req.OrderID,
		Name:     req.Name,
		Items:    req.Items,
		Address:  req.Address,
		Amount:   req.Amount,
		Currency: currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Order confirmation sent"})
}
