package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate.
// Items and address are denormalized snapshots stored as JSON.
type OrderModel struct {
	AggregateModel
	UserID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items             OrderItems          `gorm:"type:jsonb;not null"`
	Address           valueobject.Address `gorm:"type:jsonb;not null"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DeliveryCharge    decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Amount            decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Currency          string              `gorm:"type:varchar(3);not null"`
	PaymentMethod     string              `gorm:"type:varchar(20);not null"`
	Payment           bool                `gorm:"not null;default:false"`
	Status            string              `gorm:"type:varchar(30);not null;index"`
	CheckoutSessionID *string             `gorm:"type:varchar(255);uniqueIndex"`
	PaidAt            *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.root(),
		UserID:            m.UserID,
		Items:             append([]trade.OrderItem(nil), m.Items...),
		Address:           m.Address,
		Subtotal:          m.Subtotal,
		DeliveryCharge:    m.DeliveryCharge,
		Amount:            m.Amount,
		Currency:          valueobject.Currency(m.Currency),
		PaymentMethod:     trade.PaymentMethod(m.PaymentMethod),
		Payment:           m.Payment,
		Status:            trade.OrderStatus(m.Status),
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
	}
	if m.CheckoutSessionID != nil {
		o.CheckoutSessionID = *m.CheckoutSessionID
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.AggregateModel = aggregateColumns(o.BaseAggregateRoot)
	m.UserID = o.UserID
	m.Items = OrderItems(o.Items)
	m.Address = o.Address
	m.Subtotal = o.Subtotal
	m.DeliveryCharge = o.DeliveryCharge
	m.Amount = o.Amount
	m.Currency = string(o.Currency)
	m.PaymentMethod = string(o.PaymentMethod)
	m.Payment = o.Payment
	m.Status = string(o.Status)
	m.CheckoutSessionID = nil
	if o.CheckoutSessionID != "" {
		id := o.CheckoutSessionID
		m.CheckoutSessionID = &id
	}
	m.PaidAt = o.PaidAt
	m.CancelledAt = o.CancelledAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItems is the order line snapshot stored as a JSON array column
type OrderItems []trade.OrderItem

// Value implements driver.Valuer
func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	return jsonValue([]trade.OrderItem(i))
}

// Scan implements sql.Scanner
func (i *OrderItems) Scan(value any) error {
	return scanJSON(value, (*[]trade.OrderItem)(i))
}
