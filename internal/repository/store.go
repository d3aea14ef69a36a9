// Package repository opens the configured document store: Postgres, SQLite or
// compressed files, optionally fronted by a Redis read-through cache.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"granth/internal/config"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	"granth/internal/repository/file"
	"granth/internal/repository/postgres"
	postgresBook "granth/internal/repository/postgres/book"
	"granth/internal/repository/redis"
	"granth/internal/repository/sqlite"
)

// Options selects and locates one storage backend
type Options struct {
	Backend     string
	DatabaseURL string
	TablePrefix string
	SQLitePath  string
	DataDir     string
	RedisURL    string
	CacheTTL    time.Duration
}

// OptionsFromConfig takes the storage settings of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Backend:     cfg.StoreBackend,
		DatabaseURL: cfg.DatabaseURL,
		TablePrefix: cfg.TablePrefix,
		SQLitePath:  cfg.SQLitePath,
		DataDir:     cfg.DataDir,
		RedisURL:    cfg.RedisURL,
		CacheTTL:    cfg.CacheTTL,
	}
}

// Store bundles a document repository with the transaction manager that
// serializes its writers. Close releases the underlying connections.
type Store struct {
	Documents bookrepo.DocumentRepository
	TxManager repositories.TransactionManager
	Backend   string

	closers []func()
}

// Close releases every connection the store opened, newest first
func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Open connects to the backend named in opts. Postgres gets its schema ensured
// and real transactions; SQLite and file stores run mutations without one.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	s := &Store{Backend: opts.Backend, TxManager: repositories.NoTransactions{}}

	switch opts.Backend {
	case config.BackendPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)

		tables := postgres.NewTableNames(opts.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			s.Close()
			return nil, err
		}
		s.Documents = postgresBook.NewDocumentRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		s.TxManager = postgres.NewTransactionManager(pool, logger)
		logger.Info("database connected", "backend", opts.Backend, "table", tables.Books)

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		s.Documents = sqlite.NewDocumentRepository(db, logger)
		logger.Info("database opened", "backend", opts.Backend, "path", opts.SQLitePath)

	case config.BackendFile:
		repo, err := file.NewDocumentRepository(opts.DataDir, logger)
		if err != nil {
			return nil, err
		}
		s.Documents = repo
		logger.Info("file store opened", "backend", opts.Backend, "dir", opts.DataDir)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}

	if opts.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, opts.RedisURL)
		if err != nil {
			// the cache is optional; serve straight from the store
			logger.Warn("redis unavailable, cache disabled", "error", err)
			return s, nil
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.Documents = redis.NewCachedRepository(s.Documents, rdb, opts.CacheTTL, logger)
		logger.Info("document cache enabled", "ttl", opts.CacheTTL)
	}

	return s, nil
}
