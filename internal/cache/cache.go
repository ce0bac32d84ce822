package cache

import (
	"context"
	"time"

	"github.com/fortuna/pivotboard/internal/store"
	"go.uber.org/zap"
)

// DefaultTTL is how long a fetched table is served before it is refetched
const DefaultTTL = 10 * time.Minute

// Entry is a cached table and the time it was fetched
type Entry struct {
	Table     store.Table `json:"table"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Store persists entries by key
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

// IsStale reports whether an entry fetched at fetchedAt has outlived ttl at now
func IsStale(fetchedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(fetchedAt) > ttl
}

// FetchFunc loads a table from the data source
type FetchFunc func(ctx context.Context) store.Table

// TableCache memoizes table fetches by table name for a fixed TTL.
// Two callers racing on a stale key may both fetch; the last write wins.
type TableCache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewTableCache creates a table cache over the given store
func NewTableCache(s Store, ttl time.Duration, logger *zap.Logger) *TableCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableCache{
		store:  s,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source; used by tests
func (c *TableCache) WithClock(now func() time.Time) *TableCache {
	c.now = now
	return c
}

// TTL returns the configured time-to-live
func (c *TableCache) TTL() time.Duration {
	return c.ttl
}

// GetOrFetch returns the cached table for key, calling fetch when the entry is
// missing or stale. Store failures degrade to a direct fetch.
func (c *TableCache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) store.Table {
	now := c.now()

	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("table", key), zap.Error(err))
	}
	if ok && !IsStale(entry.FetchedAt, now, c.ttl) {
		c.logger.Debug("cache hit", zap.String("table", key), zap.Time("fetched_at", entry.FetchedAt))
		return entry.Table
	}

	table := fetch(ctx)
	table.FetchedAt = now

	if err := c.store.Set(ctx, key, Entry{Table: table, FetchedAt: now}, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("table", key), zap.Error(err))
	}
	c.logger.Debug("cache refreshed", zap.String("table", key), zap.Int("rows", len(table.Rows)))

	return table
}
