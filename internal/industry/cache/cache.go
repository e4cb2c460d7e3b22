// Package cache provides a typed in-memory cache with expiry.
package cache

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rsned/industry-planner/internal/industry/logging"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Cache stores values of one type under string keys.
type Cache[V any] struct {
	useCase string
	cache   *gocache.Cache
	logger  *slog.Logger
}

// New creates a cache. useCase names it in log lines.
func New[V any](useCase string, defaultExpiration, cleanupInterval time.Duration, logger *slog.Logger) *Cache[V] {
	return &Cache[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
		logger:  logging.OrDefault(logger),
	}
}

// Get retrieves a value. A stored value of the wrong type counts as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		c.logger.Error("wrong type in cache", "cache", c.useCase, "key", key)
		return zero, false
	}
	return v, true
}

// Set stores a value with the default expiration.
func (c *Cache[V]) Set(key string, value V) {
	c.cache.Set(key, value, gocache.DefaultExpiration)
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss.
func (c *Cache[V]) GetOrCompute(key string, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v)
	return v
}

// Flush removes everything.
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// Len returns the number of stored items, including expired ones not yet
// cleaned up.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
