package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
)

const (
	// IdempotencyKeyHeader guards a checkout against double submission
	IdempotencyKeyHeader = "Idempotency-Key"
	// StripeSignatureHeader carries the webhook signature
	StripeSignatureHeader = "Stripe-Signature"
	maxIdempotencyKeyLen  = 128
)

// OrderService is the checkout use case surface used by OrderHandler
type OrderService interface {
	PlaceCOD(ctx context.Context, userID uuid.UUID, input trade.PlaceOrderInput) (*trade.PlaceOrderResult, error)
	PlaceStripe(ctx context.Context, userID uuid.UUID, origin string, input trade.PlaceOrderInput) (*trade.PlaceOrderResult, error)
	VerifyStripe(ctx context.Context, userID, orderID uuid.UUID, success bool) (*trade.VerifyResult, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	UserOrders(ctx context.Context, userID uuid.UUID) ([]trade.OrderResponse, error)
	AllOrders(ctx context.Context) ([]trade.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*trade.OrderResponse, error)
}

// OrderHandler serves checkout, order history and the admin order board
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{orders: svc}
}

// PlaceOrderRequest is the checkout form. Items and amount are rebuilt
// from the stored cart, so any sent by the storefront are ignored.
type PlaceOrderRequest struct {
	Address valueobject.Address `json:"address"`
}

// VerifyStripeRequest is sent when the customer returns from hosted checkout
type VerifyStripeRequest struct {
	OrderID string   `json:"orderId" binding:"required"`
	Success wireBool `json:"success"`
}

// UpdateStatusRequest is the admin status change form
type UpdateStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// OrderList is the order history payload
type OrderList struct {
	Orders []trade.OrderResponse `json:"orders"`
}

// wireBool accepts true or "true", as the verify page forwards the query string value
type wireBool bool

func (b *wireBool) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseBool(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*b = wireBool(v)
	return nil
}

// PlaceCOD handles POST /api/order/place
func (h *OrderHandler) PlaceCOD(c *gin.Context) {
	userID, input, ok := h.checkoutInput(c)
	if !ok {
		return
	}
	result, err := h.orders.PlaceCOD(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// PlaceStripe handles POST /api/order/stripe. The caller's Origin header
// is the base of the hosted checkout return URLs.
func (h *OrderHandler) PlaceStripe(c *gin.Context) {
	userID, input, ok := h.checkoutInput(c)
	if !ok {
		return
	}
	result, err := h.orders.PlaceStripe(c.Request.Context(), userID, c.GetHeader("Origin"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *OrderHandler) checkoutInput(c *gin.Context) (uuid.UUID, trade.PlaceOrderInput, bool) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return uuid.Nil, trade.PlaceOrderInput{}, false
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return uuid.Nil, trade.PlaceOrderInput{}, false
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		h.BadRequest(c, "Idempotency-Key is too long")
		return uuid.Nil, trade.PlaceOrderInput{}, false
	}
	return userID, trade.PlaceOrderInput{Address: req.Address, IdempotencyKey: key}, true
}

// VerifyStripe handles POST /api/order/verifyStripe
func (h *OrderHandler) VerifyStripe(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req VerifyStripeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		h.BadRequest(c, "Invalid order id")
		return
	}

	result, err := h.orders.VerifyStripe(c.Request.Context(), userID, orderID, bool(req.Success))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// StripeWebhook handles POST /api/order/webhook/stripe. The raw body is
// needed for signature verification so it is never bound.
func (h *OrderHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Webhook payload too large")
		return
	}
	if err := h.orders.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader(StripeSignatureHeader)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// UserOrders handles POST /api/order/userorders
func (h *OrderHandler) UserOrders(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.UserOrders(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderList(orders))
}

// AllOrders handles POST /api/order/list
func (h *OrderHandler) AllOrders(c *gin.Context) {
	orders, err := h.orders.AllOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderList(orders))
}

// UpdateStatus handles POST /api/order/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		h.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func orderList(orders []trade.OrderResponse) OrderList {
	if orders == nil {
		orders = []trade.OrderResponse{}
	}
	return OrderList{Orders: orders}
}
