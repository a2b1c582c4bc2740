package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceConfig configures the cart service
type ServiceConfig struct {
	// MaxRetries bounds the re-read and re-apply loop of single-entry writes
	MaxRetries     int
	DeliveryCharge decimal.Decimal
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxRetries:     5,
		DeliveryCharge: decimal.NewFromInt(10),
	}
}

// CartService manages per-user cart snapshots
type CartService struct {
	repo     cart.Repository
	cache    cart.Cache
	products catalog.ProductRepository
	config   ServiceConfig
	logger   *zap.Logger
}

// NewCartService creates a new CartService. cache may be nil.
func NewCartService(repo cart.Repository, cache cart.Cache, products catalog.ProductRepository, config ServiceConfig, logger *zap.Logger) *CartService {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}
	return &CartService{
		repo:     repo,
		cache:    cache,
		products: products,
		config:   config,
		logger:   logger,
	}
}

// Get returns the user's cart with live prices and totals
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Snapshot returns the stored cart without catalog enrichment. It reads the
// repository directly since orders are built from it.
func (s *CartService) Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load cart", userID, err)
	}
	return c, nil
}

// Add increments the entry by one. The product must exist and offer size.
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, productID, size string) (*CartView, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasSize(normalize(size)) {
		return nil, shared.NewDomainError("INVALID_SIZE", "Select a size offered for this product")
	}
	c, err := s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.Add(product.ID.String(), size)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// SetQuantity upserts an entry; quantity <= 0 removes it without a catalog check
func (s *CartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID, size string, quantity int) (*CartView, error) {
	if quantity > 0 {
		product, err := s.product(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.HasSize(normalize(size)) {
			return nil, shared.NewDomainError("INVALID_SIZE", "Select a size offered for this product")
		}
	}
	c, err := s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.Set(canonicalID(productID), size, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Count returns the total item quantity
func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Amount returns the cart subtotal at current catalog prices
func (s *CartService) Amount(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	products, err := s.resolve(ctx, c)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Amount(priceResolver(products)), nil
}

// Replace overwrites the whole snapshot if version still matches the stored
// cart. On CART_CONFLICT the current server cart is returned with the error.
func (s *CartService) Replace(ctx context.Context, userID uuid.UUID, items cart.Items, version int64) (*CartView, error) {
	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load cart", userID, err)
	}
	if current.Version != version {
		return s.conflict(ctx, current)
	}
	if err := current.Replace(canonicalItems(items)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, current, version); err != nil {
		if errors.Is(err, cart.ErrConflict) {
			latest, gerr := s.repo.Get(ctx, userID)
			if gerr != nil {
				return nil, s.internal("Failed to load cart", userID, gerr)
			}
			return s.conflict(ctx, latest)
		}
		return nil, s.internal("Failed to save cart", userID, err)
	}
	s.evict(ctx, current)
	return s.view(ctx, current)
}

// Merge folds a guest cart into the stored one; incoming entries win
func (s *CartService) Merge(ctx context.Context, userID uuid.UUID, items cart.Items) (*CartView, error) {
	c, err := s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.Merge(canonicalItems(items))
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := s.mutate(ctx, userID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// mutate applies fn to a fresh read of the cart and saves with compare-and-swap,
// retrying on conflict so that concurrent writers of different entries are
// all kept.
func (s *CartService) mutate(ctx context.Context, userID uuid.UUID, fn func(*cart.Cart) error) (*cart.Cart, error) {
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		c, err := s.repo.Get(ctx, userID)
		if err != nil {
			return nil, s.internal("Failed to load cart", userID, err)
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, c, c.Version)
		if err == nil {
			s.evict(ctx, c)
			return c, nil
		}
		if !errors.Is(err, cart.ErrConflict) {
			return nil, s.internal("Failed to save cart", userID, err)
		}
		s.logger.Debug("Cart write conflict, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt))
	}
	s.logger.Warn("Cart write retries exhausted", zap.String("user_id", userID.String()))
	return nil, cart.ErrConflict
}

func (s *CartService) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if s.cache != nil {
		c, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("Cart cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if c != nil {
			return c, nil
		}
	}
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load cart", userID, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, c); err != nil {
			s.logger.Warn("Cart cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return c, nil
}

func (s *CartService) evict(ctx context.Context, saved *cart.Cart) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), saved.UserID, saved.Version); err != nil {
		s.logger.Warn("Cart cache eviction failed", zap.String("user_id", saved.UserID.String()), zap.Error(err))
	}
}

func (s *CartService) product(ctx context.Context, rawID string) (*catalog.Product, error) {
	id, err := uuid.Parse(normalize(rawID))
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		s.logger.Error("Failed to load product", zap.String("product_id", rawID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load product")
	}
	return p, nil
}

// resolve loads the products referenced by the cart keyed by string id.
// Ids that are not UUIDs or no longer exist are absent from the result.
func (s *CartService) resolve(ctx context.Context, c *cart.Cart) (map[string]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0)
	for _, raw := range c.ProductIDs() {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	out := make(map[string]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve cart products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart products")
	}
	for i := range products {
		out[products[i].ID.String()] = &products[i]
	}
	return out, nil
}

func (s *CartService) view(ctx context.Context, c *cart.Cart) (*CartView, error) {
	products, err := s.resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	lines := c.Lines()
	items := make([]LineView, 0, len(lines))
	for _, line := range lines {
		lv := LineView{ProductID: line.ProductID, Size: line.Size, Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			lv.Name = p.Name
			lv.Image = p.PrimaryImage()
			lv.Price = p.Price
			lv.Available = true
		}
		items = append(items, lv)
	}

	subtotal := c.Amount(priceResolver(products))
	delivery := decimal.Zero
	if !subtotal.IsZero() {
		delivery = s.config.DeliveryCharge
	}
	return &CartView{
		CartData:       c.Snapshot(),
		Items:          items,
		Count:          c.Count(),
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Total:          subtotal.Add(delivery),
		Version:        c.Version,
	}, nil
}

func (s *CartService) conflict(ctx context.Context, current *cart.Cart) (*CartView, error) {
	v, err := s.view(ctx, current)
	if err != nil {
		return nil, err
	}
	return v, cart.ErrConflict
}

func (s *CartService) internal(msg string, userID uuid.UUID, err error) error {
	s.logger.Error(msg, zap.String("user_id", userID.String()), zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", msg)
}

func priceResolver(products map[string]*catalog.Product) cart.PriceResolver {
	return func(id string) (decimal.Decimal, bool) {
		p, ok := products[id]
		if !ok {
			return decimal.Zero, false
		}
		return p.Price, true
	}
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

// canonicalID lower-cases UUID keys so that lookups against the catalog match
func canonicalID(raw string) string {
	if id, err := uuid.Parse(normalize(raw)); err == nil {
		return id.String()
	}
	return raw
}

func canonicalItems(items cart.Items) cart.Items {
	out := make(cart.Items, len(items))
	for pid, sizes := range items {
		key := canonicalID(pid)
		if out[key] == nil {
			out[key] = make(map[string]int, len(sizes))
		}
		for size, q := range sizes {
			out[key][size] = q
		}
	}
	return out
}
