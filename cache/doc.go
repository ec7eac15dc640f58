// Package cache provides a fast, generic, sharded in-memory cache with
// interchangeable eviction engines: LRU, LFU with frequency aging, and a
// k-promotion wrapper that admits keys only after repeated access.
//
// Design
//
//   - Concurrency: the key space is split into shards, each protected by
//     its own lock. The default shard count derives from CPU parallelism
//     (queried once at construction). Get mutates recency/frequency state,
//     so it holds the same exclusive lock as Put; operations on different
//     shards run fully in parallel, and no global lock exists.
//
//   - Storage: each shard owns one eviction engine. Engines keep a
//     map[K]index for lookups and doubly linked structures whose links are
//     stable arena indices, so the arena is the sole owner of entry memory
//     and list surgery is O(1) with no per-operation allocation.
//
//   - Policies: the engine is pluggable via the policy package. LRU is the
//     default. LFU maintains per-frequency buckets and ages them once the
//     mean access frequency crosses a ceiling, so stale hot keys decay.
//     The klru wrapper tracks not-yet-admitted keys in a bounded LRU
//     history and promotes on the k-th access, which resists scan traffic.
//
//   - Validation: invalid configuration (non-positive capacity, negative
//     shard count, bad policy parameters) fails construction with an error
//     rather than degrading to a cache that silently does nothing.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals;
//     NoopMetrics is the default, and metrics/prom exports them to
//     Prometheus. Options.OnEvict observes individual capacity evictions.
//
// Basic usage
//
//	c, err := cache.New(cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    // invalid configuration
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
//
// Selecting a policy
//
//	// LFU with the default aging ceiling.
//	c, err := cache.New(cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   lfu.New[string, string](),
//	})
//
//	// Admit a key into the main cache only on its 3rd access,
//	// remembering up to 2048 candidate keys per shard.
//	c, err := cache.New(cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   klru.New[string, string](3, 2048),
//	})
//
// Exporting metrics
//
//	m := prom.New(nil, "myapp", "cache", nil)
//	c, err := cache.New(cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Thread-safety & complexity
//
// All Cache methods are safe for concurrent use. Typical operation cost is
// O(1) expected: one map access plus a constant number of index fixes.
// The LFU aging pass is O(n) but amortizes over roughly ceiling×n accesses.
package cache
