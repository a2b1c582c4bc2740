package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// Aggregate type constant for Product
const AggregateTypeProduct = "Product"

// Product event types
const (
	EventTypeProductAdded   = "ProductAdded"
	EventTypeProductRemoved = "ProductRemoved"
)

// ProductAddedEvent is raised when an admin lists a new product
type ProductAddedEvent struct {
	shared.BaseDomainEvent
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// NewProductAddedEvent creates a new ProductAddedEvent
func NewProductAddedEvent(p *Product) *ProductAddedEvent {
	return &ProductAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductAdded, AggregateTypeProduct, p.ID),
		Name:            p.Name,
		Price:           p.Price,
		Category:        p.Category,
	}
}

// ProductRemovedEvent is raised when an admin deletes a product
type ProductRemovedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductRemovedEvent creates a new ProductRemovedEvent
func NewProductRemovedEvent(p *Product) *ProductRemovedEvent {
	return &ProductRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductRemoved, AggregateTypeProduct, p.ID),
		Name:            p.Name,
	}
}
