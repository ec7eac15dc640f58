package cache

// Cache is a sharded, in-memory key/value cache with a pluggable eviction
// policy. All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity is amortized O(1): a map lookup plus constant-time
// list adjustments under one shard lock.
type Cache[K comparable, V any] interface {
	// Put inserts or updates k→v. Updating an existing key counts as an
	// access under the active eviction policy.
	Put(k K, v V)

	// Get returns the value for k and a presence flag. A hit promotes the
	// entry according to the policy (recency or frequency), so Get is a
	// mutating operation internally.
	Get(k K) (V, bool)

	// Peek returns the value for k without promoting it. It does not count
	// toward hit/miss statistics.
	Peek(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Purge clears all entries across all shards. O(total size).
	Purge()

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Stats returns aggregate hit/miss/eviction counters and the current
	// entry count.
	Stats() Stats

	// Close marks the cache closed; subsequent operations are ignored.
	Close() error
}

// Stats is a point-in-time aggregate of the per-shard counters. Counters
// from different shards are read without a global lock, so the snapshot is
// approximate under concurrent load.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
	Entries   int
}
