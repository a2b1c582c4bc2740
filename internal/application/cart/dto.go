package cart

import (
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
)

// LineView is one cart entry enriched with live catalog data.
// Name and Price are empty when the product no longer exists.
type LineView struct {
	ProductID string          `json:"productId"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// CartView is the cart as returned to the storefront
type CartView struct {
	CartData       cart.Items      `json:"cartData"`
	Items          []LineView      `json:"items"`
	Count          int             `json:"count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Total          decimal.Decimal `json:"total"`
	Version        int64           `json:"version"`
}
