package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderCancelled     = "OrderCancelled"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedEvent is raised when a cash-on-delivery order is placed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Amount:          o.Amount,
		Currency:        string(o.Currency),
		PaymentMethod:   string(o.PaymentMethod),
		ItemCount:       o.ItemCount(),
	}
}

// OrderPaidEvent is raised when a hosted checkout payment is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	UserID            uuid.UUID       `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	CheckoutSessionID string          `json:"checkout_session_id,omitempty"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:           o.ID,
		UserID:            o.UserID,
		Amount:            o.Amount,
		Currency:          string(o.Currency),
		CheckoutSessionID: o.CheckoutSessionID,
	}
}

// OrderCancelledEvent is raised when an order is cancelled or abandoned
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	FromStatus string    `json:"from_status"`
	Reason     string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, from OrderStatus, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		FromStatus:      string(from),
		Reason:          reason,
	}
}

// OrderStatusChangedEvent is raised on an admin fulfilment update
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		FromStatus:      string(from),
		ToStatus:        string(o.Status),
	}
}
