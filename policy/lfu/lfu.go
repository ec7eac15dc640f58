// Package lfu implements the frequency-bucketed eviction engine with
// frequency aging.
package lfu

import (
	"github.com/IvanBrykalov/polycache/internal/arena"
	"github.com/IvanBrykalov/polycache/policy"
)

// DefaultMaxAverageFrequency is the aging trigger used by New.
// Once the mean access frequency across resident entries exceeds this
// ceiling, every stored frequency is reduced by ceiling/2 (floored at 1),
// so long-lived hot keys cannot permanently dominate eviction decisions.
const DefaultMaxAverageFrequency = 10

// Cache is a capacity-bounded least-frequently-used engine: a key→slot map
// plus one arena-backed list per distinct access frequency. Eviction takes
// the oldest resident of the minimum-frequency bucket (FIFO tie-break).
// Operations are O(1) amortized; an aging rebalance is an O(n) pass paid
// roughly once per ceiling×n accesses.
//
// Cache is not synchronized; see policy.Engine for the locking contract.
type Cache[K comparable, V any] struct {
	cap     int
	maxAvg  int
	items   map[K]int // key -> arena slot
	a       *arena.Arena[K, V]
	buckets map[int]*arena.List[K, V] // frequency -> resident entries, oldest first

	// minFreq names a non-empty bucket whenever the cache holds entries;
	// 0 is the explicit empty state (no magic numeric sentinel).
	minFreq int

	// total tracks the sum of all resident frequencies: +1 on admission,
	// +1 per access, -frequency on eviction/removal, recomputed by a
	// rebalance. total/len(items) is the average the aging trigger watches.
	total int

	onEvict policy.EvictFunc[K, V]
}

// NewCache constructs an LFU engine. capacity and maxAvg must be positive.
func NewCache[K comparable, V any](capacity, maxAvg int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrCapacity
	}
	if maxAvg <= 0 {
		return nil, policy.ErrAgingCeiling
	}
	return &Cache[K, V]{
		cap:     capacity,
		maxAvg:  maxAvg,
		items:   make(map[K]int, capacity),
		a:       arena.New[K, V](3 * capacity), // entries plus bucket sentinels
		buckets: make(map[int]*arena.List[K, V]),
		onEvict: onEvict,
	}, nil
}

type lfuPolicy[K comparable, V any] struct{ maxAvg int }

// New returns the Policy factory for LFU engines with the default aging
// ceiling.
func New[K comparable, V any]() policy.Policy[K, V] {
	return lfuPolicy[K, V]{maxAvg: DefaultMaxAverageFrequency}
}

// NewWithMaxAverage returns an LFU factory with a custom aging ceiling.
// The ceiling is validated when the engine is constructed.
func NewWithMaxAverage[K comparable, V any](maxAvg int) policy.Policy[K, V] {
	return lfuPolicy[K, V]{maxAvg: maxAvg}
}

func (p lfuPolicy[K, V]) New(capacity int, onEvict policy.EvictFunc[K, V]) (policy.Engine[K, V], error) {
	return NewCache[K, V](capacity, p.maxAvg, onEvict)
}

// Put inserts or updates k→v. An update counts as an access. A new key at
// capacity evicts the oldest entry of the minimum-frequency bucket first.
func (c *Cache[K, V]) Put(k K, v V) {
	if i, ok := c.items[k]; ok {
		c.a.SetValue(i, v)
		c.touch(i)
		return
	}
	if len(c.items) >= c.cap {
		c.evict()
	}
	i := c.a.Alloc(k, v)
	c.a.SetFreq(i, 1)
	c.items[k] = i
	c.bucket(1).PushBack(i)
	c.minFreq = 1
	c.total++
}

// Get returns the value for k and bumps the entry's frequency.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	i, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	v := c.a.Value(i)
	c.touch(i)
	return v, true
}

// Peek returns the value for k without bumping its frequency.
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
	f := c.a.Freq(i)
	c.unlink(i, f)
	c.total -= f
	delete(c.items, k)
	c.a.Release(i)

	// Removal may leave minFreq pointing at a pruned bucket.
	if len(c.items) == 0 {
		c.minFreq = 0
	} else if f == c.minFreq {
		if _, live := c.buckets[f]; !live {
			c.minFreq = c.scanMinFreq()
		}
	}
	return true
}

// Purge drops all entries, buckets, and counters.
func (c *Cache[K, V]) Purge() {
	c.items = make(map[K]int, c.cap)
	c.buckets = make(map[int]*arena.List[K, V])
	c.a.Reset()
	c.minFreq = 0
	c.total = 0
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// bucket returns the list for frequency f, creating it lazily.
func (c *Cache[K, V]) bucket(f int) *arena.List[K, V] {
	b, ok := c.buckets[f]
	if !ok {
		b = arena.NewList(c.a)
		c.buckets[f] = b
	}
	return b
}

// unlink detaches slot i from its frequency bucket and prunes the bucket
// if it emptied, recycling its sentinels.
func (c *Cache[K, V]) unlink(i, f int) {
	b := c.buckets[f]
	if b == nil {
		panic("lfu: entry frequency names a missing bucket")
	}
	b.Remove(i)
	if b.Empty() {
		b.Discard()
		delete(c.buckets, f)
	}
}

// touch moves slot i from its bucket to the next-frequency bucket, then
// runs the aging check. minFreq advances only when the entry leaves a
// just-emptied minimum bucket; the new f+1 bucket is non-empty by
// construction.
func (c *Cache[K, V]) touch(i int) {
	f := c.a.Freq(i)
	c.unlink(i, f)
	if f == c.minFreq {
		if _, live := c.buckets[f]; !live {
			c.minFreq = f + 1
		}
	}
	c.a.SetFreq(i, f+1)
	c.bucket(f + 1).PushBack(i)
	c.total++
	c.maybeAge()
}

// evict removes the longest-resident entry at the minimum frequency.
// Only the new-key admission path calls it, and that path re-anchors
// minFreq to 1 immediately afterwards.
func (c *Cache[K, V]) evict() {
	b := c.buckets[c.minFreq]
	if b == nil {
		panic("lfu: minFreq names a missing bucket")
	}
	i, ok := b.Front()
	if !ok {
		panic("lfu: empty bucket at min frequency")
	}
	key, val, f := c.a.Key(i), c.a.Value(i), c.a.Freq(i)
	c.unlink(i, f)
	c.total -= f
	delete(c.items, key)
	c.a.Release(i)
	if c.onEvict != nil {
		c.onEvict(key, val)
	}
}

// maybeAge rebalances all frequencies once the average exceeds the ceiling:
// every entry drops by maxAvg/2 (floored at 1) and moves to its new bucket,
// then total and minFreq are recomputed. The O(n) pass keeps comparisons
// responsive to recent behavior instead of historic hit counts.
func (c *Cache[K, V]) maybeAge() {
	n := len(c.items)
	if n == 0 || c.total/n <= c.maxAvg {
		return
	}
	cut := c.maxAvg / 2
	newTotal := 0
	for _, i := range c.items {
		f := c.a.Freq(i)
		c.unlink(i, f)
		nf := f - cut
		if nf < 1 {
			nf = 1
		}
		c.a.SetFreq(i, nf)
		c.bucket(nf).PushBack(i)
		newTotal += nf
	}
	c.total = newTotal
	c.minFreq = c.scanMinFreq()
}

// scanMinFreq finds the smallest populated bucket. Empty buckets are pruned
// eagerly, so every map entry is populated; 1 is the fallback for the
// (unreachable here) no-bucket state.
func (c *Cache[K, V]) scanMinFreq() int {
	min := 0
	for f := range c.buckets {
		if min == 0 || f < min {
			min = f
		}
	}
	if min == 0 {
		min = 1
	}
	return min
}

var _ policy.Engine[string, int] = (*Cache[string, int])(nil)
