package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been used so that a
// repeated checkout submission or webhook delivery is processed once.
type IdempotencyStore interface {
	// Reserve claims key with a TTL and stores value against it.
	// Returns true if the key was newly claimed, false if it already existed.
	Reserve(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Lookup returns the value stored for key and whether it exists
	Lookup(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value of an existing or new key
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Release removes key so it can be claimed again
	Release(ctx context.Context, key string) error

	// Close releases the store; shared clients stay open
	Close() error
}
