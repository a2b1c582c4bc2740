package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds the products that exist among ids; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns every product, newest first
	FindAll(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteByID deletes a product; returns NOT_FOUND if it does not exist
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
