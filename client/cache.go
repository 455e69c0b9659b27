package client

import (
	"reflect"
	"sync"
	"time"
)

// Cache holds per-aggregate snapshots keyed by id, each stamped with when
// it was fetched. A snapshot is stale the instant another actor mutates the
// record server-side; Reconcile resolves that against the next real fetch.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[int]cacheEntry[T]
}

type cacheEntry[T any] struct {
	value     T
	fetchedAt time.Time
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[int]cacheEntry[T])}
}

// Get returns the cached snapshot and its fetch time.
func (c *Cache[T]) Get(id int) (T, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry.value, entry.fetchedAt, ok
}

// Put stores a freshly fetched snapshot.
func (c *Cache[T]) Put(id int, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry[T]{value: value, fetchedAt: time.Now()}
}

// Patch applies an optimistic local update in place. The patched value is
// provisional until the next Reconcile against a real fetch.
func (c *Cache[T]) Patch(id int, patch func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return false
	}
	// fetchedAt is deliberately not advanced: the patch is a guess, not
	// server truth.
	c.entries[id] = cacheEntry[T]{value: patch(entry.value), fetchedAt: entry.fetchedAt}
	return true
}

// Drop discards a snapshot, e.g. after the server reports the record gone.
func (c *Cache[T]) Drop(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Reconcile merges a fresh fetch into the cache and reports whether the
// cached (possibly optimistically patched) value disagreed with it. The
// fetched value always wins.
func (c *Cache[T]) Reconcile(id int, fresh T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, hadCached := c.entries[id]
	changed := !hadCached || !reflect.DeepEqual(entry.value, fresh)
	c.entries[id] = cacheEntry[T]{value: fresh, fetchedAt: time.Now()}
	return fresh, changed
}
