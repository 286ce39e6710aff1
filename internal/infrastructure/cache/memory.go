package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/nutriview/backend/internal/domain"
)

// DefaultMaxEntries bounds the in-memory cache when no limit is configured
const DefaultMaxEntries = 10000

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      []byte
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// It holds at most maxEntries items and evicts the least recently used one.
type MemoryCache struct {
	items *lru.Cache
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache bounded to maxEntries items.
// A non-positive maxEntries uses DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	// lru.New only fails for non-positive sizes
	items, _ := lru.New(maxEntries)

	cache := &MemoryCache{
		items: items,
		stop:  make(chan struct{}),
	}

	// Remove expired entries every 10 minutes
	go cache.cleanupExpired(10 * time.Minute)

	return cache
}

// Get retrieves a value from the cache and marks it recently used
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	item := v.(cacheItem)
	if time.Now().After(item.Expiration) {
		c.items.Remove(key)
		return nil, domain.ErrCacheMiss
	}

	out := make([]byte, len(item.Value))
	copy(out, item.Value)
	return out, nil
}

// Set stores a copy of value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.items.Add(key, cacheItem{
		Value:      stored,
		Expiration: time.Now().Add(ttl),
	})

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.items.Remove(key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	v, ok := c.items.Peek(key)
	if !ok {
		return false, nil
	}

	return !time.Now().After(v.(cacheItem).Expiration), nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	for _, key := range c.items.Keys() {
		v, ok := c.items.Peek(key)
		if ok && now.After(v.(cacheItem).Expiration) {
			c.items.Remove(key)
		}
	}
}
