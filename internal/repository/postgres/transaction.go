package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"granth/internal/domain/repositories"
)

// TransactionManager runs book mutations in one Postgres transaction so the
// SELECT ... FOR UPDATE in Load holds the row until Save commits
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx runs fn inside a transaction carried by ctx. A call made while a
// transaction is already open joins it instead of starting another.
// Errors from fn are returned unwrapped so domain errors keep their messages.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.InTx(ctx) {
		return fn(ctx)
	}

	err := pgx.BeginTxFunc(ctx, tm.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(repositories.SetTx(ctx, tx))
	})
	if err != nil {
		tm.logger.Debug("transaction rolled back", "error", err)
	}
	return err
}
