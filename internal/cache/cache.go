// Package cache provides a keyed time-to-live cache with explicit invalidation.
package cache

import (
	"sync"
	"time"

	"github.com/r4diorusak/InventoryHub/internal/clock"
)

// DefaultTTL is how long an entry stays valid after insertion.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// TTLCache holds values for a fixed duration after they are put.
// Expired entries are dropped lazily on read.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   clock.Clock
}

// New creates a cache. A non-positive ttl selects DefaultTTL and a nil clock the wall clock.
func New[V any](ttl time.Duration, clk clock.Clock) *TTLCache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &TTLCache[V]{
		entries: map[string]entry[V]{},
		ttl:     ttl,
		clock:   clk,
	}
}

// Get returns the value for key if it was put less than the TTL ago.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	now := c.clock.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if now.Sub(e.insertedAt) >= c.ttl {
		c.mu.Lock()
		// Only drop it if nobody refreshed the key meanwhile.
		if cur, still := c.entries[key]; still && cur.insertedAt.Equal(e.insertedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, stamped with the current time.
func (c *TTLCache[V]) Put(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, insertedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Invalidate removes the given keys. Unknown keys are ignored.
func (c *TTLCache[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.entries = map[string]entry[V]{}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}
