package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists cart snapshots with optimistic versioning
type Repository interface {
	// Get returns the user's cart; a user without a stored cart gets an empty
	// cart at version 0
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save writes the cart if the stored version still equals expectedVersion,
	// then sets cart.Version to expectedVersion+1. A stale version yields ErrConflict.
	Save(ctx context.Context, c *Cart, expectedVersion int64) error
}

// Cache is an optional read-through cache in front of a Repository
type Cache interface {
	// Get returns nil without error on a miss
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Set stores c unless a newer version was recorded by Invalidate
	Set(ctx context.Context, c *Cart) error
	// Invalidate evicts the cart once the repository holds version
	Invalidate(ctx context.Context, userID uuid.UUID, version int64) error
}
