package repositories

import (
	"context"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// WithTransaction executes fn within a transaction. Repository calls made
	// with the context passed to fn join the transaction; a returned error
	// or panic rolls it back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
