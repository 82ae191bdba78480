// Package cache holds the renderer's identity-keyed GPU resource memoization and the
// growable buffers backing per-frame instance, skin and light data.
package cache

import "sync"

// Cache memoizes values derived from a resource, keyed by the resource's identity.
// Entries are created on first use and live until Release; there is no eviction.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	order   []K
}

// New creates an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V)}
}

// GetOrCreate returns the value cached for key, calling create to build it on a miss.
// A create error is returned and nothing is cached, so the next call retries.
// The lock is held across create, so concurrent misses on any key are serialized.
//
// Parameters:
//   - key: the resource identity
//   - create: builds the value on a miss
//
// Returns:
//   - V: the cached or newly created value
//   - error: the error from create, if any
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	return v, nil
}

// Get returns the value cached for key without creating one.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Range calls fn for every entry in insertion order until fn returns false.
// fn must not call back into the cache.
func (c *Cache[K, V]) Range(fn func(K, V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.order {
		if !fn(k, c.entries[k]) {
			return
		}
	}
}

// Release calls fn for every entry in insertion order and empties the cache.
// Used at shutdown to free GPU handles.
func (c *Cache[K, V]) Release(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn != nil {
		for _, k := range c.order {
			fn(k, c.entries[k])
		}
	}
	c.entries = make(map[K]V)
	c.order = nil
}
