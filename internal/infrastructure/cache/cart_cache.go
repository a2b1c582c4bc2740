package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
)

const cartKeyPrefix = "store:cart:"

// cartEntry is the cached form of a cart
type cartEntry struct {
	Items     cart.Items `json:"items"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RedisCartCache is a read-through cache in front of the cart repository.
// Each key is a hash holding the cart version and, unless invalidated, the
// encoded cart. Writes carrying an older version than the one recorded are
// refused, so a reader that raced a save cannot put its stale copy back.
type RedisCartCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// setCartScript writes the cart when ARGV[1] is not older than the stored version
var setCartScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// invalidateCartScript drops the cached cart and raises the version floor
var invalidateCartScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HDEL', KEYS[1], 'data')
redis.call('HSET', KEYS[1], 'v', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// NewRedisCartCache creates a cart cache; ttl <= 0 means 10 minutes
func NewRedisCartCache(client redis.UniversalClient, ttl time.Duration) *RedisCartCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCartCache{client: client, ttl: ttl}
}

// Get returns nil on a miss or after an invalidation
func (c *RedisCartCache) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	data, err := c.client.HGet(ctx, cartKey(userID), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart cache: %w", err)
	}

	var e cartEntry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = c.client.HDel(ctx, cartKey(userID), "data").Err()
		return nil, nil
	}
	return cart.FromItems(userID, e.Items, e.Version, e.UpdatedAt), nil
}

// Set stores the cart unless a newer version has been recorded for the user
func (c *RedisCartCache) Set(ctx context.Context, crt *cart.Cart) error {
	data, err := json.Marshal(cartEntry{Items: crt.Snapshot(), Version: crt.Version, UpdatedAt: crt.UpdatedAt})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	err = setCartScript.Run(ctx, c.client, []string{cartKey(crt.UserID)},
		crt.Version, data, jitter(c.ttl).Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to write cart cache: %w", err)
	}
	return nil
}

// Invalidate evicts the user's cart after the repository stored version
func (c *RedisCartCache) Invalidate(ctx context.Context, userID uuid.UUID, version int64) error {
	err := invalidateCartScript.Run(ctx, c.client, []string{cartKey(userID)},
		version, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to evict cart cache: %w", err)
	}
	return nil
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

// jitter spreads expirations over ttl +/- 10%
func jitter(ttl time.Duration) time.Duration {
	spread := int64(ttl) / 5
	if spread <= 0 {
		return ttl
	}
	return ttl - time.Duration(spread/2) + time.Duration(rand.Int64N(spread))
}

var _ cart.Cache = (*RedisCartCache)(nil)
