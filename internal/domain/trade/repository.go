package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCheckoutSession finds the order a hosted checkout session was created for
	FindByCheckoutSession(ctx context.Context, sessionID string) (*Order, error)

	// FindByUser lists a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// FindAll lists every order, newest first
	FindAll(ctx context.Context) ([]Order, error)

	// Create inserts a new order
	Create(ctx context.Context, order *Order) error

	// SaveWithLock updates an order if its stored version matches, then bumps the version
	SaveWithLock(ctx context.Context, order *Order) error

	// Delete removes an order permanently
	Delete(ctx context.Context, id uuid.UUID) error
}
