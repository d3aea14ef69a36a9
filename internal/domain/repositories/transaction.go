package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}

// NoTransactions runs functions directly, for stores where every Save is
// already atomic (file, sqlite single statement)
type NoTransactions struct{}

// ExecTx calls fn with the unchanged context
func (NoTransactions) ExecTx(ctx context.Context, fn TxFn) error {
	return fn(ctx)
}
