package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry holds a cached value together with its expiry. A stored zero value
// (nil for pointer types) is a valid negative result: "looked up, nothing
// found". That is different from the key being absent entirely.
type entry[V any] struct {
	value     V
	expiresAt time.Time
	elem      *list.Element
}

// Cache is a TTL cache with a hard entry cap. When the cap is reached the
// oldest-inserted key is evicted; TTL expiry stays the correctness
// mechanism, the cap only bounds memory. Safe for concurrent use.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]*entry[V]
	order      *list.List // of string keys, oldest first
	maxEntries int
	now        func() time.Time
}

// New creates a cache holding at most maxEntries keys. A maxEntries <= 0
// disables the cap.
func New[V any](maxEntries int) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]*entry[V]),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Tests use this to expire entries
// deterministically.
func (c *Cache[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached value for key. ok is false when the key is absent
// or its entry has expired; a true ok with a zero value is a negative hit.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl. An existing entry is overwritten in
// place and keeps its insertion position.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)

	if e, found := c.entries[key]; found {
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: expiresAt,
		elem:      c.order.PushBack(key),
	}
}

// Len returns the number of stored keys, expired entries included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	key := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}
