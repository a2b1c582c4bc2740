package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/trade"
)

// PlaceOrderInput holds a checkout submission. Items and amounts are always
// rebuilt from the stored cart and live catalog prices.
type PlaceOrderInput struct {
	Address        valueobject.Address
	IdempotencyKey string
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"_id"`
	UserID         uuid.UUID           `json:"userId"`
	Items          []OrderItemResponse `json:"items"`
	Address        valueobject.Address `json:"address"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DeliveryCharge decimal.Decimal     `json:"deliveryCharge"`
	Amount         decimal.Decimal     `json:"amount"`
	Currency       string              `json:"currency"`
	PaymentMethod  string              `json:"paymentMethod"`
	Payment        bool                `json:"payment"`
	Status         string              `json:"status"`
	Date           int64               `json:"date"`
	PaidAt         *time.Time          `json:"paidAt,omitempty"`
	CancelledAt    *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// PlaceOrderResult is returned by checkout operations.
// SessionURL is set for hosted checkout orders only.
type PlaceOrderResult struct {
	Order      OrderResponse `json:"order"`
	SessionURL string        `json:"session_url,omitempty"`
}

// VerifyResult is returned by the hosted checkout callback.
// Order is nil when an abandoned order was purged.
type VerifyResult struct {
	Success bool           `json:"success"`
	Order   *OrderResponse `json:"order,omitempty"`
}

// ToOrderResponse converts a domain order to its response shape
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Items:          items,
		Address:        o.Address,
		Subtotal:       o.Subtotal,
		DeliveryCharge: o.DeliveryCharge,
		Amount:         o.Amount,
		Currency:       string(o.Currency),
		PaymentMethod:  string(o.PaymentMethod),
		Payment:        o.Payment,
		Status:         o.Status.String(),
		Date:           o.CreatedAt.UnixMilli(),
		PaidAt:         o.PaidAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
