// Package lru implements the recency-ordered eviction engine.
package lru

import (
	"github.com/IvanBrykalov/polycache/internal/arena"
	"github.com/IvanBrykalov/polycache/policy"
)

// Cache is a capacity-bounded least-recently-used engine: a key→slot index
// map plus one arena-backed recency list (front = LRU, back = MRU).
// Every operation is O(1).
//
// Cache is not synchronized; see policy.Engine for the locking contract.
type Cache[K comparable, V any] struct {
	cap     int
	items   map[K]int // key -> arena slot
	a       *arena.Arena[K, V]
	order   *arena.List[K, V]
	onEvict policy.EvictFunc[K, V]
}

// NewCache constructs an LRU engine. capacity must be positive.
// onEvict, when non-nil, observes capacity evictions.
func NewCache[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrCapacity
	}
	a := arena.New[K, V](capacity + 2) // entries plus two sentinels
	return &Cache[K, V]{
		cap:     capacity,
		items:   make(map[K]int, capacity),
		a:       a,
		order:   arena.NewList(a),
		onEvict: onEvict,
	}, nil
}

type lruPolicy[K comparable, V any] struct{}

// New returns the Policy factory for LRU engines. It is the default policy
// of the sharded cache.
func New[K comparable, V any]() policy.Policy[K, V] { return lruPolicy[K, V]{} }

func (lruPolicy[K, V]) New(capacity int, onEvict policy.EvictFunc[K, V]) (policy.Engine[K, V], error) {
	return NewCache[K, V](capacity, onEvict)
}

// Put inserts or updates k→v. An update is treated as an access and moves
// the entry to the MRU end. A new key at capacity evicts the LRU entry.
func (c *Cache[K, V]) Put(k K, v V) {
	if i, ok := c.items[k]; ok {
		c.a.SetValue(i, v)
		c.order.MoveToBack(i)
		return
	}
	if len(c.items) >= c.cap {
		c.evict()
	}
	i := c.a.Alloc(k, v)
	c.items[k] = i
	c.order.PushBack(i)
}

// Get returns the value for k and promotes the entry to the MRU end.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	i, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToBack(i)
	return c.a.Value(i), true
}

// Peek returns the value for k without disturbing recency order.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	i, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.a.Value(i), true
}

// Remove deletes k if present.
func (c *Cache[K, V]) Remove(k K) bool {
	i, ok := c.items[k]
	if !ok {
		return false
	}
	c.order.Remove(i)
	c.a.Release(i)
	delete(c.items, k)
	return true
}

// Purge drops all entries and rebuilds the recency list.
func (c *Cache[K, V]) Purge() {
	c.items = make(map[K]int, c.cap)
	c.a.Reset()
	c.order = arena.NewList(c.a)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// evict removes the entry at the LRU end.
func (c *Cache[K, V]) evict() {
	i, ok := c.order.Front()
	if !ok {
		// Unreachable while the map/list invariant holds: the map is at
		// capacity (> 0), so the list cannot be empty.
		panic("lru: recency list empty at capacity")
	}
	key, val := c.a.Key(i), c.a.Value(i)
	c.order.Remove(i)
	c.a.Release(i)
	delete(c.items, key)
	if c.onEvict != nil {
		c.onEvict(key, val)
	}
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)
