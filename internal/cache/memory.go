package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory caching of rewrite results.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a rewrite result from the cache.
func (c *MemoryCache) Get(key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

// Set stores a rewrite result with the given TTL.
func (c *MemoryCache) Set(key string, value string, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes an entry from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
