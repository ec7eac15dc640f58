// Package policy defines the capability contract every eviction engine
// satisfies and the factory interface the sharded cache builds shards from.
package policy

import "errors"

// Construction errors. Invalid parameters fail engine construction instead
// of degrading to a silent no-op cache.
var (
	// ErrCapacity — entry capacity must be a positive integer.
	ErrCapacity = errors.New("policy: capacity must be positive")
	// ErrAgingCeiling — the LFU average-frequency ceiling must be positive.
	ErrAgingCeiling = errors.New("policy: aging ceiling must be positive")
	// ErrThreshold — the k-promotion threshold must be >= 1.
	ErrThreshold = errors.New("policy: promotion threshold must be >= 1")
	// ErrHistoryCapacity — the k-promotion history capacity must be positive.
	ErrHistoryCapacity = errors.New("policy: history capacity must be positive")
)

// Engine is the capability contract shared by every eviction engine
// (LRU, LFU, k-promotion). An engine owns its index map and linked
// structures exclusively; no two engines ever share a node or bucket.
//
// Engines are NOT synchronized. Callers hold one exclusive lock around
// every call — the sharded cache does this per shard. Get is a mutating
// operation (it updates recency or frequency state) and needs the same
// exclusion as Put.
type Engine[K comparable, V any] interface {
	// Put inserts or updates k→v. Updating an existing key counts as an
	// access: the entry is promoted exactly as a Get would promote it.
	Put(k K, v V)

	// Get returns the value for k and a presence flag, promoting the entry
	// per the engine's policy. A miss is (zero, false), never an error.
	Get(k K) (V, bool)

	// Peek returns the value for k without touching recency or frequency
	// state. Useful for composition and for deterministic tests.
	Peek(k K) (V, bool)

	// Remove deletes k if present and reports whether it was resident.
	Remove(k K) bool

	// Purge drops every entry and resets internal counters. O(n).
	Purge()

	// Len returns the number of resident entries.
	Len() int
}

// EvictFunc observes capacity evictions. It runs inside the engine's
// critical section; keep implementations lightweight. Explicit Remove and
// Purge are not evictions and are not reported.
type EvictFunc[K comparable, V any] func(k K, v V)

// Policy constructs engine instances. The sharded cache calls New once per
// shard with the partitioned per-shard capacity; policy-specific parameters
// (aging ceiling, promotion threshold) travel inside the Policy value and
// are validated here, at construction time.
type Policy[K comparable, V any] interface {
	New(capacity int, onEvict EvictFunc[K, V]) (Engine[K, V], error)
}
