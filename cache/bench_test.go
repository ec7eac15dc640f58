package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/polycache/policy"
	"github.com/IvanBrykalov/polycache/policy/klru"
	"github.com/IvanBrykalov/polycache/policy/lfu"
)

// benchmarkMix exercises a read/write mix against a warm cache with the
// given policy. RunParallel spawns GOMAXPROCS workers; string keys include
// strconv/concat costs, which is fine for an end-to-end benchmark.
func benchmarkMix(b *testing.B, pol policy.Policy[string, string], readsPct int) {
	c, err := New(Options[string, string]{
		Capacity: 100_000,
		Policy:   pol,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = c.Close() })

	// Preload half the capacity for a realistic hit rate.
	for i := 0; i < 50_000; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Put(k, "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace, power of two for the &-mask

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
			i++
		}
	})
}

func BenchmarkLRU_90r10w(b *testing.B)  { benchmarkMix(b, nil, 90) }
func BenchmarkLRU_50r50w(b *testing.B)  { benchmarkMix(b, nil, 50) }
func BenchmarkLFU_90r10w(b *testing.B)  { benchmarkMix(b, lfu.New[string, string](), 90) }
func BenchmarkLFU_50r50w(b *testing.B)  { benchmarkMix(b, lfu.New[string, string](), 50) }
func BenchmarkKLRU_90r10w(b *testing.B) { benchmarkMix(b, klru.New[string, string](2, 25_000), 90) }

// benchmarkMixInt is the same workload with int keys: no strconv/alloc
// noise, so the cache hot path dominates.
func benchmarkMixInt(b *testing.B, readsPct int) {
	c, err := New(Options[int, int]{Capacity: 100_000})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 50_000; i++ {
		c.Put(i, 1)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := i & keyMask
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, 1)
			}
			i++
		}
	})
}

func BenchmarkIntKeys_90r10w(b *testing.B) { benchmarkMixInt(b, 90) }
func BenchmarkIntKeys_50r50w(b *testing.B) { benchmarkMixInt(b, 50) }
