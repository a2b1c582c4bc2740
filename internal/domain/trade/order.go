package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
)

// OrderStatus is the fulfilment status of an order. The values are the
// labels the admin panel displays.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "Awaiting payment"
	OrderStatusPlaced          OrderStatus = "Order Placed"
	OrderStatusPacking         OrderStatus = "Packing"
	OrderStatusShipped         OrderStatus = "Shipped"
	OrderStatusOutForDelivery  OrderStatus = "Out for delivery"
	OrderStatusDelivered       OrderStatus = "Delivered"
	OrderStatusCancelled       OrderStatus = "Cancelled"
)

// ErrInvalidTransition is returned for a status change the table does not allow
var ErrInvalidTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order status transition is not allowed")

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusPlaced, OrderStatusPacking, OrderStatusShipped,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusAwaitingPayment:
		return target == OrderStatusPlaced || target == OrderStatusCancelled
	case OrderStatusPlaced:
		return target == OrderStatusPacking || target == OrderStatusCancelled
	case OrderStatusPacking:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusOutForDelivery
	case OrderStatusOutForDelivery:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// ParseOrderStatus converts an admin supplied label into an OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", raw))
	}
	return s, nil
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodStripe PaymentMethod = "Stripe"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodStripe
}

// OrderItem is a denormalized snapshot of a product at order time
type OrderItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) validate() error {
	if i.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Order item product is required")
	}
	if i.Size == "" {
		return shared.NewDomainError("INVALID_INPUT", "Order item size is required")
	}
	if i.Quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Order item quantity must be positive")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Order item price cannot be negative")
	}
	return nil
}

// Order is the aggregate root for a placed order
type Order struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID
	Items             []OrderItem
	Address           valueobject.Address
	Subtotal          decimal.Decimal
	DeliveryCharge    decimal.Decimal
	Amount            decimal.Decimal
	Currency          valueobject.Currency
	PaymentMethod     PaymentMethod
	Payment           bool
	Status            OrderStatus
	CheckoutSessionID string
	PaidAt            *time.Time
	CancelledAt       *time.Time
}

// NewOrder builds an order from resolved items. COD orders start as placed,
// Stripe orders wait for payment.
func NewOrder(
	userID uuid.UUID,
	items []OrderItem,
	address valueobject.Address,
	deliveryCharge decimal.Decimal,
	currency valueobject.Currency,
	method PaymentMethod,
) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
	}
	for _, item := range items {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if deliveryCharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Delivery charge cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported payment method")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             append([]OrderItem(nil), items...),
		Address:           address,
		DeliveryCharge:    deliveryCharge,
		Currency:          currency,
		PaymentMethod:     method,
	}
	order.recalculateTotals()

	if method == PaymentMethodCOD {
		order.Status = OrderStatusPlaced
		order.Record(NewOrderPlacedEvent(order))
	} else {
		order.Status = OrderStatusAwaitingPayment
	}
	return order, nil
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Amount = subtotal.Add(o.DeliveryCharge)
}

// AttachCheckoutSession records the hosted checkout session created for the order
func (o *Order) AttachCheckoutSession(sessionID string) error {
	if o.PaymentMethod != PaymentMethodStripe {
		return shared.NewDomainError("INVALID_STATE", "Only card orders have a checkout session")
	}
	if sessionID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Checkout session ID cannot be empty")
	}
	o.CheckoutSessionID = sessionID
	o.Touch()
	return nil
}

// ConfirmPayment marks a hosted checkout order as paid and placed.
// It reports false without error when the order was already paid.
func (o *Order) ConfirmPayment() (bool, error) {
	if o.Payment {
		return false, nil
	}
	if o.Status != OrderStatusAwaitingPayment {
		return false, shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot confirm payment of an order in status %q", o.Status))
	}
	now := time.Now()
	o.Payment = true
	o.PaidAt = &now
	o.Status = OrderStatusPlaced
	o.Touch()
	o.Record(NewOrderPaidEvent(o))
	return true, nil
}

// Abandon cancels an order whose hosted checkout did not complete.
// It reports false without error when the order is already cancelled.
func (o *Order) Abandon() (bool, error) {
	if o.Status == OrderStatusCancelled {
		return false, nil
	}
	if o.Payment || o.Status != OrderStatusAwaitingPayment {
		return false, shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot abandon an order in status %q", o.Status))
	}
	o.cancel("payment not completed")
	return true, nil
}

// ChangeStatus applies an admin status update. Setting the current status
// again is a no-op. Leaving "Awaiting payment" is only possible through
// ConfirmPayment or Abandon.
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == o.Status {
		return nil
	}
	if o.Status == OrderStatusAwaitingPayment || !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot change order status from %q to %q", o.Status, target))
	}
	if target == OrderStatusCancelled {
		o.cancel("cancelled by admin")
		return nil
	}
	from := o.Status
	o.Status = target
	o.Touch()
	o.Record(NewOrderStatusChangedEvent(o, from))
	return nil
}

func (o *Order) cancel(reason string) {
	now := time.Now()
	from := o.Status
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.Touch()
	o.Record(NewOrderCancelledEvent(o, from, reason))
}

// ItemCount returns the total quantity across items
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy reports whether the order belongs to the user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// IsAwaitingPayment reports whether the order waits for a card payment
func (o *Order) IsAwaitingPayment() bool {
	return o.Status == OrderStatusAwaitingPayment
}
