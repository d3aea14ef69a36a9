// Package redis provides a read-through cache in front of any book DocumentRepository.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
)

const keyPrefix = "granth:book:"

// NewClient parses a redis:// URL and pings the server
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// CachedRepository caches stored documents in Redis. The inner repository
// stays authoritative: cache failures are logged and the call falls through.
type CachedRepository struct {
	inner  bookrepo.DocumentRepository
	rdb    goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps inner with a cache whose entries expire after ttl
func NewCachedRepository(inner bookrepo.DocumentRepository, rdb goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With("component", "book_cache"),
	}
}

func cacheKey(id string) string {
	return keyPrefix + id
}

// Load serves from the cache, filling it from the inner repository on a miss.
// Inside a transaction the inner repository is read directly so its row lock is taken.
func (c *CachedRepository) Load(ctx context.Context, id string) (book.RawDocument, error) {
	if repositories.InTx(ctx) {
		return c.inner.Load(ctx, id)
	}

	data, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		if raw, decodeErr := book.DecodeRaw(data); decodeErr == nil {
			c.logger.Debug("cache hit", "book_id", id)
			return raw, nil
		}
		c.logger.Warn("dropping undecodable cache entry", "book_id", id)
		c.evict(ctx, id)
	case errors.Is(err, goredis.Nil):
		c.logger.Debug("cache miss", "book_id", id)
	default:
		c.logger.Warn("cache read failed", "book_id", id, "error", err)
	}

	raw, err := c.inner.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(raw); err == nil {
		if err := c.rdb.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
			c.logger.Warn("cache fill failed", "book_id", id, "error", err)
		}
	}
	return raw, nil
}

// Save writes through to the inner repository, then refreshes the cache entry.
// A save inside a transaction may still roll back, so it only evicts.
func (c *CachedRepository) Save(ctx context.Context, id string, doc *book.Document) error {
	if err := c.inner.Save(ctx, id, doc); err != nil {
		c.evict(ctx, id)
		return err
	}
	if repositories.InTx(ctx) {
		c.evict(ctx, id)
		return nil
	}
	data, err := book.Encode(doc)
	if err != nil {
		c.evict(ctx, id)
		return nil
	}
	if err := c.rdb.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache refresh failed", "book_id", id, "error", err)
		c.evict(ctx, id)
	}
	return nil
}

// Delete removes the book from the inner repository and the cache
func (c *CachedRepository) Delete(ctx context.Context, id string) error {
	c.evict(ctx, id)
	return c.inner.Delete(ctx, id)
}

// List is served by the inner repository
func (c *CachedRepository) List(ctx context.Context) ([]string, error) {
	return c.inner.List(ctx)
}

func (c *CachedRepository) evict(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("cache evict failed", "book_id", id, "error", err)
	}
}
