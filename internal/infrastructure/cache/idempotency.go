package cache

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrIdempotencyBackend is returned when Redis is required but absent
var ErrIdempotencyBackend = errors.New("idempotency store needs Redis")

// IdempotencyOptions selects the idempotency backend
type IdempotencyOptions struct {
	// KeyPrefix namespaces Redis keys; empty uses the default prefix
	KeyPrefix string
	// AllowMemory permits a process-local store when client is nil
	AllowMemory bool
}

// NewIdempotencyStore uses Redis when a client is given. Without one it
// returns a MemoryIdempotencyStore if opts allow it, or ErrIdempotencyBackend.
func NewIdempotencyStore(client redis.UniversalClient, opts IdempotencyOptions, log *zap.Logger) (shared.IdempotencyStore, error) {
	if client != nil {
		log.Info("Idempotency keys stored in Redis")
		return NewRedisIdempotencyStore(client, opts.KeyPrefix), nil
	}
	if !opts.AllowMemory {
		return nil, ErrIdempotencyBackend
	}
	log.Warn("Idempotency keys held in memory; retries that reach another instance are not deduplicated")
	return NewMemoryIdempotencyStore(), nil
}
