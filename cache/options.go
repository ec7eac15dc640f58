package cache

import (
	"errors"

	"github.com/IvanBrykalov/polycache/policy"
)

// Construction errors returned by New. Invalid configuration fails loudly
// instead of degrading to a no-op cache.
var (
	// ErrCapacity — Options.Capacity must be a positive entry count.
	ErrCapacity = errors.New("cache: capacity must be positive")
	// ErrShards — Options.Shards must not be negative (0 selects the
	// hardware-parallelism default).
	ErrShards = errors.New("cache: shard count must not be negative")
)

// Metrics exposes cache-level observability hooks. NoopMetrics is used when
// none is configured; metrics/prom provides a Prometheus adapter.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures the cache. Zero values select defaults in New:
//   - Policy == nil  => LRU
//   - Shards == 0    => auto from detected hardware parallelism
//   - Hash == nil    => 64-bit FNV-1a over the key
//   - Metrics == nil => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, partitioned across shards as
	// ceil(Capacity/shards). Required; must be positive.
	Capacity int

	// Shards is the number of independently locked partitions. 0 selects a
	// default sized from CPU parallelism (captured once, at construction).
	// Explicit positive counts are used exactly as given; the count is
	// fixed for the cache's lifetime.
	Shards int

	// Policy selects the eviction engine built for each shard:
	// lru.New, lfu.New / lfu.NewWithMaxAverage, or klru.New.
	Policy policy.Policy[K, V]

	// Hash routes keys to shards. It must be deterministic for a given
	// key. The default covers strings, byte slices/arrays, integers, and
	// fmt.Stringer keys.
	Hash func(K) uint64

	// OnEvict observes capacity evictions. It runs under the shard lock;
	// keep it lightweight. Explicit Remove and Purge are not reported.
	OnEvict func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics
}
