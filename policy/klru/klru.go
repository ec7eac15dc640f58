// Package klru implements the k-promotion wrapper: a key enters the main
// cache only after its k-th qualifying access.
package klru

import (
	"github.com/IvanBrykalov/polycache/policy"
	"github.com/IvanBrykalov/polycache/policy/lru"
)

// record is a history entry: how many qualifying accesses the key has seen,
// and the latest Put value staged for promotion. Staging lets the access
// that reaches the threshold surface a materialized value instead of a
// spurious miss.
type record[V any] struct {
	count  int
	value  V
	staged bool
}

// Cache composes a main LRU cache with a capacity-bounded LRU history of
// not-yet-promoted keys. Accesses below threshold k only accumulate in the
// history; the k-th access promotes. History entries evicted by their own
// LRU bound silently forget their counts.
//
// Cache is not synchronized. One caller-held lock spans the combined
// history+main update, which keeps promotion atomic without ever nesting
// two locks; the sharded cache's per-shard lock provides exactly that.
type Cache[K comparable, V any] struct {
	k       int
	main    *lru.Cache[K, V]
	history *lru.Cache[K, record[V]]
}

// NewCache constructs a k-promotion engine over an LRU main cache of the
// given capacity. k must be >= 1 and historyCapacity positive; k == 1
// degenerates to plain LRU behavior.
func NewCache[K comparable, V any](capacity, historyCapacity, k int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if k < 1 {
		return nil, policy.ErrThreshold
	}
	if historyCapacity <= 0 {
		return nil, policy.ErrHistoryCapacity
	}
	main, err := lru.NewCache[K, V](capacity, onEvict)
	if err != nil {
		return nil, err
	}
	history, err := lru.NewCache[K, record[V]](historyCapacity, nil)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{k: k, main: main, history: history}, nil
}

type klruPolicy[K comparable, V any] struct {
	k       int
	histCap int
}

// New returns the Policy factory for k-promotion engines. The sharded
// cache passes the partitioned main capacity; k and historyCapacity apply
// per shard and are validated at engine construction.
func New[K comparable, V any](k, historyCapacity int) policy.Policy[K, V] {
	return klruPolicy[K, V]{k: k, histCap: historyCapacity}
}

func (p klruPolicy[K, V]) New(capacity int, onEvict policy.EvictFunc[K, V]) (policy.Engine[K, V], error) {
	return NewCache[K, V](capacity, p.histCap, p.k, onEvict)
}

// Put records a qualifying access. A main-resident key is updated in place.
// Otherwise the value is staged with the history record until the count
// reaches k, at which point the key moves from history into main.
func (c *Cache[K, V]) Put(k K, v V) {
	if _, ok := c.main.Peek(k); ok {
		c.main.Put(k, v)
		return
	}
	rec, _ := c.history.Peek(k)
	rec.count++
	if rec.count >= c.k {
		c.history.Remove(k)
		c.main.Put(k, v)
		return
	}
	rec.value, rec.staged = v, true
	c.history.Put(k, rec)
}

// Get records a qualifying access and returns the main-cache result.
// The access that pushes the count to k promotes: a main-resident key is
// refreshed, a staged value is materialized into main and returned, and a
// key with neither reports a miss (its history record is consumed).
func (c *Cache[K, V]) Get(k K) (V, bool) {
	rec, _ := c.history.Peek(k)
	if rec.count+1 >= c.k {
		c.history.Remove(k)
		if v, ok := c.main.Get(k); ok {
			return v, true
		}
		if rec.staged {
			c.main.Put(k, rec.value)
			return rec.value, true
		}
		var zero V
		return zero, false
	}
	rec.count++
	c.history.Put(k, rec)
	return c.main.Get(k)
}

// Peek reports main-cache residency without counting as an access.
func (c *Cache[K, V]) Peek(k K) (V, bool) { return c.main.Peek(k) }

// Remove forgets the key entirely: resident copy and accumulated history.
func (c *Cache[K, V]) Remove(k K) bool {
	inMain := c.main.Remove(k)
	inHistory := c.history.Remove(k)
	return inMain || inHistory
}

// Purge clears both the main cache and the history.
func (c *Cache[K, V]) Purge() {
	c.main.Purge()
	c.history.Purge()
}

// Len returns the number of promoted (main-resident) entries.
func (c *Cache[K, V]) Len() int { return c.main.Len() }

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)
