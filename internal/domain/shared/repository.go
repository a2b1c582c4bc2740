package shared

import "context"

// Transactor runs fn inside a single storage transaction. Repositories obtained
// from the context passed to fn participate in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
