// Package repokit binds repositories to a query surface so they run the same inside and outside a transaction
package repokit

import (
	"context"

	"feasibility/internal/platform/store"
)

// Queryer is what a bound repo issues SQL through, a pool or a transaction
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
