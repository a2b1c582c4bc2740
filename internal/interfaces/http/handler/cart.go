package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
)

// CartService is the cart use case surface used by CartHandler
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*appcart.CartView, error)
	Add(ctx context.Context, userID uuid.UUID, productID, size string) (*appcart.CartView, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, productID, size string, quantity int) (*appcart.CartView, error)
	Replace(ctx context.Context, userID uuid.UUID, items cart.Items, version int64) (*appcart.CartView, error)
	Merge(ctx context.Context, userID uuid.UUID, items cart.Items) (*appcart.CartView, error)
}

// CartHandler serves the signed-in customer's cart
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{carts: svc}
}

// AddToCartRequest adds one unit of a product size
type AddToCartRequest struct {
	ItemID string `json:"itemId" binding:"required"`
	Size   string `json:"size" binding:"required"`
}

// UpdateCartRequest sets a quantity; zero or less removes the entry
type UpdateCartRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity"`
}

// SyncCartRequest replaces the whole cart if version still matches
type SyncCartRequest struct {
	Items   cart.Items `json:"items"`
	Version int64      `json:"version" binding:"gte=0"`
}

// MergeCartRequest folds a guest cart into the stored one
type MergeCartRequest struct {
	Items cart.Items `json:"items"`
}

// Get handles POST /api/cart/get
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	h.respond(c, func(ctx context.Context) (*appcart.CartView, error) {
		return h.carts.Get(ctx, userID)
	})
}

// Add handles POST /api/cart/add
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*appcart.CartView, error) {
		return h.carts.Add(ctx, userID, req.ItemID, req.Size)
	})
}

// Update handles POST /api/cart/update
func (h *CartHandler) Update(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*appcart.CartView, error) {
		return h.carts.SetQuantity(ctx, userID, req.ItemID, req.Size, req.Quantity)
	})
}

// Sync handles PUT /api/cart/sync
func (h *CartHandler) Sync(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*appcart.CartView, error) {
		return h.carts.Replace(ctx, userID, req.Items, req.Version)
	})
}

// Merge handles POST /api/cart/merge
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context) (*appcart.CartView, error) {
		return h.carts.Merge(ctx, userID, req.Items)
	})
}

// respond writes the resulting cart. A CART_CONFLICT still carries the
// current server cart in data so the client can rebase its edit.
func (h *CartHandler) respond(c *gin.Context, op func(ctx context.Context) (*appcart.CartView, error)) {
	view, err := op(c.Request.Context())
	if err == nil {
		h.Success(c, view)
		return
	}
	var domainErr *shared.DomainError
	if view == nil || !errors.As(err, &domainErr) {
		h.HandleError(c, err)
		return
	}
	resp := dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, getRequestID(c))
	resp.Data = view
	c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
}
