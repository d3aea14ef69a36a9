package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"granth/internal/domain/repositories"
)

// RepositoryConfig is what a Postgres repository needs to run queries
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the prefixed table names, so several deployments can
// share one database (TABLE_PREFIX=dev_, test_)
type TableNames struct {
	Books string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{Books: prefix + "books"}
}

// pgBouncerPort is where hosted poolers conventionally listen in transaction mode
const pgBouncerPort = 6543

// CreateConnectionPool opens a pgx pool and pings it.
//
// Poolers in transaction mode reject prepared statements, so on the PgBouncer
// port the cached-statement default becomes cached-describe, which still uses
// the extended protocol the JSONB column needs. An explicit
// default_query_exec_mode in the URL wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Each request is one load and at most one save.
	cfg.MaxConns = 10
	cfg.MinConns = 2

	conn := cfg.ConnConfig
	if conn.Port == pgBouncerPort && conn.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		conn.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("using cache_describe exec mode behind pgbouncer", "port", conn.Port)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool outside one
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
