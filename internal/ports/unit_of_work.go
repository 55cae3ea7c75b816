package ports

import "context"

// Tx is an opaque transaction handle. The persistence layer decides the
// concrete type (here, *gorm.DB).
type Tx interface{}

// UnitOfWork runs fn inside one transaction. fn returning an error rolls
// back; nil commits.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in the context so repositories
// called inside a unit of work join the same transaction.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads the transaction handle, or nil outside a unit of work.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
