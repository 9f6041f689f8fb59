// Package cache holds the in-memory timed cache and the disk-backed
// catalog stores that sit between the repositories and the database.
package cache

import (
	"sync"
	"time"
)

type timedEntry[V any] struct {
	value    V
	storedAt time.Time
}

// TimedCache is a keyed cache of (value, timestamp) pairs with lazy
// TTL expiry. Safe for concurrent use; the lock only ever guards pure
// map mutation, never I/O.
type TimedCache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]timedEntry[V]
}

func NewTimedCache[K comparable, V any](ttl time.Duration) *TimedCache[K, V] {
	return &TimedCache[K, V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[K]timedEntry[V]),
	}
}

// Get returns the stored value iff it is younger than the TTL. Expired
// entries behave as absent; there is no eviction goroutine.
func (c *TimedCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Put stores value with the current timestamp, replacing any prior entry.
func (c *TimedCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = timedEntry[V]{value: value, storedAt: c.now()}
}

// Clear removes all entries.
func (c *TimedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]timedEntry[V])
}
