package cache

import (
	"sync"
	"time"
)

// TTL is a process-wide key/value cache with per-entry expiry. Entries are
// recomputed lazily on read after expiry; nothing invalidates them on write
// because the cached data (location reference lists) is near-static.
//
// The clock is injectable so tests can advance time without sleeping.
type TTL struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// New creates an empty cache using the wall clock.
func New() *TTL {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty cache using the given clock.
func NewWithClock(now func() time.Time) *TTL {
	return &TTL{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the cached value for key, or false if absent or expired.
func (c *TTL) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given duration.
func (c *TTL) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Remember returns the cached value for key, computing and storing it via
// compute on a miss. Concurrent misses may each run compute; the last write
// wins, which is acceptable because compute must be idempotent.
func (c *TTL) Remember(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, v, ttl)
	return v, nil
}

// Delete removes key from the cache.
func (c *TTL) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
