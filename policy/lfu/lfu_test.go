package lfu

import (
	"errors"
	"testing"

	"github.com/IvanBrykalov/polycache/policy"
)

func TestLFU_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewCache[string, int](0, 10, nil); !errors.Is(err, policy.ErrCapacity) {
		t.Fatalf("capacity 0: err = %v, want ErrCapacity", err)
	}
	if _, err := NewCache[string, int](4, 0, nil); !errors.Is(err, policy.ErrAgingCeiling) {
		t.Fatalf("ceiling 0: err = %v, want ErrAgingCeiling", err)
	}
}

// freq reads the stored frequency of a resident key (test helper).
func freq[K comparable, V any](t *testing.T, c *Cache[K, V], k K) int {
	t.Helper()
	i, ok := c.items[k]
	if !ok {
		t.Fatalf("key %v not resident", k)
	}
	return c.a.Freq(i)
}

// put 1, put 2, get 1 -> key 2 sits alone at the minimum frequency and is
// the eviction victim for key 3.
func TestLFU_EvictsMinFrequency(t *testing.T) {
	t.Parallel()

	c, err := NewCache[int, string](2, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put(1, "A")
	c.Put(2, "B")
	if v, ok := c.Get(1); !ok || v != "A" {
		t.Fatalf("Get(1) = %q ok=%v", v, ok)
	}
	c.Put(3, "C") // evicts 2 (freq 1 < freq 2)

	if _, ok := c.Get(2); ok {
		t.Fatal("key 2 must be evicted")
	}
	if v, ok := c.Get(3); !ok || v != "C" {
		t.Fatalf("Get(3) = %q ok=%v", v, ok)
	}
}

// Equal-frequency entries evict in admission order (FIFO within a bucket).
func TestLFU_FIFOTieBreak(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](3, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Put("d", 4) // all at freq 1; "a" is oldest

	if _, ok := c.Peek("a"); ok {
		t.Fatal("oldest same-frequency entry (a) must be the victim")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Peek(k); !ok {
			t.Fatalf("%s must survive", k)
		}
	}
}

func TestLFU_MinFreqAdvances(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](2, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	if c.minFreq != 1 {
		t.Fatalf("minFreq = %d after admissions, want 1", c.minFreq)
	}
	c.Get("a")
	if c.minFreq != 1 {
		t.Fatalf("minFreq = %d while b is still at 1, want 1", c.minFreq)
	}
	c.Get("b") // bucket 1 empties
	if c.minFreq != 2 {
		t.Fatalf("minFreq = %d after bucket 1 drained, want 2", c.minFreq)
	}
}

// A Put on a resident key is an access: value updated, frequency bumped.
func TestLFU_PutUpdateCountsAsAccess(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](2, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	c.Put("a", 2)
	if got := freq(t, c, "a"); got != 2 {
		t.Fatalf("freq(a) = %d after update, want 2", got)
	}
	if v, _ := c.Peek("a"); v != 2 {
		t.Fatalf("value = %d after update, want 2", v)
	}
	if c.total != 2 {
		t.Fatalf("total = %d, want 2", c.total)
	}
}

// Crossing the average ceiling rebalances: every frequency drops by
// ceiling/2 (floored at 1), the total strictly decreases, and minFreq is
// recomputed from the surviving buckets.
func TestLFU_AgingRebalance(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("hot", 1)
	c.Put("cold", 2)
	// Drive "hot" up. Totals: 2,3,4,5 — avg stays <= 2 until total hits 6.
	for i := 0; i < 3; i++ {
		c.Get("hot")
	}
	if got := freq(t, c, "hot"); got != 4 {
		t.Fatalf("freq(hot) = %d before rebalance, want 4", got)
	}

	before := c.total // 5
	c.Get("hot")      // total 6, avg 3 > 2 -> rebalance with cut 1

	if c.total >= before+1 {
		t.Fatalf("total = %d, rebalance must strictly reduce the pre-aging sum %d", c.total, before+1)
	}
	if got := freq(t, c, "hot"); got != 4 { // 5 - 2/2
		t.Fatalf("freq(hot) = %d after rebalance, want 4", got)
	}
	if got := freq(t, c, "cold"); got != 1 { // clamped at 1
		t.Fatalf("freq(cold) = %d after rebalance, want 1", got)
	}
	if c.total != 5 {
		t.Fatalf("total = %d after rebalance, want 5", c.total)
	}
	if c.minFreq != 1 {
		t.Fatalf("minFreq = %d after rebalance, want 1", c.minFreq)
	}
	// Relative rank survives: "cold" is still the eviction victim.
	c.Put("new", 3)
	if _, ok := c.Peek("cold"); ok {
		t.Fatal("cold must be evicted after the rebalance")
	}
	if _, ok := c.Peek("hot"); !ok {
		t.Fatal("hot must survive the rebalance")
	}
}

// An eviction returns the victim's whole frequency to the accounting.
func TestLFU_EvictionAdjustsTotal(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](2, 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("b")    // freq(b)=2, total 3
	c.Put("c", 3) // evicts a (freq 1): total 2, then +1 for c

	if c.total != 3 {
		t.Fatalf("total = %d, want 3 (b:2 + c:1)", c.total)
	}
}

// Removing the last entry of the minimum bucket recomputes minFreq.
func TestLFU_RemoveRecomputesMinFreq(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](3, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	c.Get("a") // freq 2
	c.Put("b", 2)
	if c.minFreq != 1 {
		t.Fatalf("minFreq = %d, want 1", c.minFreq)
	}
	if !c.Remove("b") {
		t.Fatal("Remove(b) must succeed")
	}
	if c.minFreq != 2 {
		t.Fatalf("minFreq = %d after removing the only freq-1 entry, want 2", c.minFreq)
	}
	if !c.Remove("a") {
		t.Fatal("Remove(a) must succeed")
	}
	if c.minFreq != 0 {
		t.Fatalf("minFreq = %d on empty cache, want the explicit empty state 0", c.minFreq)
	}
}

func TestLFU_OnEvictCallback(t *testing.T) {
	t.Parallel()

	var gotK string
	var gotV int
	c, err := NewCache[string, int](1, 10, func(k string, v int) { gotK, gotV = k, v })
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 7)
	c.Put("b", 8)
	if gotK != "a" || gotV != 7 {
		t.Fatalf("onEvict got (%q,%d), want (a,7)", gotK, gotV)
	}
}

func TestLFU_PurgeResets(t *testing.T) {
	t.Parallel()

	c, err := NewCache[int, int](4, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		c.Put(i, i)
		c.Get(i)
	}
	c.Purge()

	if c.Len() != 0 || c.total != 0 || c.minFreq != 0 {
		t.Fatalf("after Purge: len=%d total=%d minFreq=%d, want zeros", c.Len(), c.total, c.minFreq)
	}
	if len(c.buckets) != 0 {
		t.Fatalf("after Purge: %d buckets remain", len(c.buckets))
	}
	c.Put(9, 9)
	if v, ok := c.Get(9); !ok || v != 9 {
		t.Fatalf("cache unusable after Purge: %d ok=%v", v, ok)
	}
}

// Frequencies never drop below 1 and only aging ever lowers them.
func TestLFU_FrequencyFloor(t *testing.T) {
	t.Parallel()

	c, err := NewCache[string, int](4, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("a", 1)
	// Rebalance repeatedly via a hot neighbor; "a" must stay floored at 1.
	c.Put("hot", 2)
	for i := 0; i < 32; i++ {
		c.Get("hot")
		if f := freq(t, c, "a"); f < 1 {
			t.Fatalf("freq(a) = %d, below floor", f)
		}
	}
}
