package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
)

const productListKey = "store:products:list"

// RedisProductListCache caches the storefront product listing as one JSON value
type RedisProductListCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisProductListCache creates a listing cache; ttl <= 0 means 5 minutes
func NewRedisProductListCache(client redis.UniversalClient, ttl time.Duration) *RedisProductListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProductListCache{client: client, ttl: ttl}
}

// GetList returns the cached listing
func (c *RedisProductListCache) GetList(ctx context.Context) ([]catalog.Product, bool, error) {
	data, err := c.client.Get(ctx, productListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product list cache: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// A value written by an incompatible build is treated as a miss
		_ = c.client.Del(ctx, productListKey).Err()
		return nil, false, nil
	}
	return products, true, nil
}

// SetList stores the listing
func (c *RedisProductListCache) SetList(ctx context.Context, products []catalog.Product) error {
	if products == nil {
		products = []catalog.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode product list: %w", err)
	}
	if err := c.client.Set(ctx, productListKey, data, jitter(c.ttl)).Err(); err != nil {
		return fmt.Errorf("failed to write product list cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing
func (c *RedisProductListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product list cache: %w", err)
	}
	return nil
}

var _ catalogapp.ProductListCache = (*RedisProductListCache)(nil)
