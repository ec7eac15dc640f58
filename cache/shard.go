package cache

import (
	"sync"

	"github.com/IvanBrykalov/polycache/internal/util"
	"github.com/IvanBrykalov/polycache/policy"
)

// shard is one independently locked partition of the key space. It owns a
// single engine instance; the engine is unsynchronized and every call into
// it happens under mu. Get takes the write lock: a hit rewires recency or
// frequency state, so there is no read-only fast path.
type shard[K comparable, V any] struct {
	mu      sync.RWMutex
	eng     policy.Engine[K, V]
	metrics Metrics

	// Hot counters on separate cache lines to avoid false sharing between
	// adjacent shards.
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// newShard builds one engine with the partitioned per-shard capacity.
// The engine's eviction callback runs inside the shard's critical section.
func newShard[K comparable, V any](capacity int, pol policy.Policy[K, V], opt *Options[K, V]) (*shard[K, V], error) {
	s := &shard[K, V]{metrics: opt.Metrics}
	userEvict := opt.OnEvict
	eng, err := pol.New(capacity, func(k K, v V) {
		s.evicts.Add(1)
		s.metrics.Evict()
		if userEvict != nil {
			userEvict(k, v)
		}
	})
	if err != nil {
		return nil, err
	}
	s.eng = eng
	return s, nil
}

func (s *shard[K, V]) put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Put(k, v)
	s.metrics.Size(s.eng.Len())
}

func (s *shard[K, V]) get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.eng.Get(k)
	if ok {
		s.hits.Add(1)
		s.metrics.Hit()
	} else {
		s.misses.Add(1)
		s.metrics.Miss()
	}
	return v, ok
}

// peek reads without promotion and without touching hit/miss counters.
func (s *shard[K, V]) peek(k K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Peek(k)
}

func (s *shard[K, V]) remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.eng.Remove(k)
	if ok {
		s.metrics.Size(s.eng.Len())
	}
	return ok
}

func (s *shard[K, V]) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Purge()
	s.metrics.Size(0)
}

func (s *shard[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Len()
}
