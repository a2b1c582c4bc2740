package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists accounts. Lookups that match nothing return
// shared.ErrNotFound; email comparisons ignore case.
type UserRepository interface {
	// Create fails with USER_EXISTS when the email is taken
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
