package repository

import "context"

// TransactionManager groups local store writes so related keys change together.
type TransactionManager interface {
	// Execute runs fn against tx. If fn returns an error, no write made
	// through tx is kept. Reads through tx see its own pending writes.
	Execute(ctx context.Context, fn func(tx LocalStore) error) error
}
