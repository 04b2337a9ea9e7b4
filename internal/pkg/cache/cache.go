package cache

import (
	"sync"
	"time"
)

// Cache is a TTL key/value store backing the list and identity views.
// Keys are namespaced strings (e.g. "members:roster", "auth:me:42").
// Instances are injected explicitly; there is no package-level store.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for tests
	now func() time.Time
}

type entry struct {
	data      interface{}
	ttl       time.Duration
	writtenAt time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key, or absent once the entry's age exceeds its
// TTL. An expired entry is invalidated on the spot.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.writtenAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores value under key with the given TTL, stamping the write time.
// Overwriting resets the TTL window.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		data:      value,
		ttl:       ttl,
		writtenAt: c.now(),
	}
}

// Invalidate removes key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// LastUpdated returns the write timestamp of a live entry.
func (c *Cache) LastUpdated(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.writtenAt) > e.ttl {
		return time.Time{}, false
	}
	return e.writtenAt, true
}
