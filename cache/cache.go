package cache

import (
	"fmt"
	"sync/atomic"

	"github.com/IvanBrykalov/polycache/internal/util"
	"github.com/IvanBrykalov/polycache/policy/lru"
)

// cache is the sharded front: it routes each key to one shard by hash and
// forwards the call unchanged. Shards never share state, so operations on
// different shards run fully in parallel with no global lock.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool
}

// New constructs a sharded cache from the provided Options.
//
// Capacity must be positive and Shards non-negative; invalid values return
// ErrCapacity or ErrShards. Shards == 0 selects a default sized from the
// detected CPU parallelism, queried once here and never re-read. Per-shard
// capacity is ceil(Capacity/shards), so the total resident bound may exceed
// Capacity by at most shards-1 entries.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrCapacity, opt.Capacity)
	}
	if opt.Shards < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrShards, opt.Shards)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	pol := opt.Policy
	if pol == nil {
		pol = lru.New[K, V]()
	}

	n := opt.Shards
	if n == 0 {
		n = util.ReasonableShardCount()
	}

	perShard := (opt.Capacity + n - 1) / n
	shards := make([]*shard[K, V], n)
	for i := range shards {
		s, err := newShard(perShard, pol, &opt)
		if err != nil {
			return nil, fmt.Errorf("cache: shard %d: %w", i, err)
		}
		shards[i] = s
	}

	h := opt.Hash
	if h == nil {
		h = util.Fnv64a[K]
	}
	return &cache[K, V]{shards: shards, hash: h}, nil
}

// Put inserts or updates k→v in the shard owning k.
func (c *cache[K, V]) Put(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.shardFor(k).put(k, v)
}

// Get returns the value for k, promoting it per the shard's policy.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.shardFor(k).get(k)
}

// Peek returns the value for k without promotion or statistics.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.shardFor(k).peek(k)
}

// Remove deletes k if present.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.shardFor(k).remove(k)
}

// Purge clears every shard. Shards are purged one at a time; concurrent
// operations on other shards proceed meanwhile.
func (c *cache[K, V]) Purge() {
	if c.closed.Load() {
		return
	}
	for _, s := range c.shards {
		s.purge()
	}
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// Stats aggregates the per-shard counters.
func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
		st.Entries += s.len()
	}
	return st
}

// Close marks the cache closed. There are no background workers; this is a
// soft close and future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// shardFor routes k to its shard. The mapping is a pure function of the
// key and the shard count, fixed for the cache's lifetime.
func (c *cache[K, V]) shardFor(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
