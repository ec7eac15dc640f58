package util

import "runtime"

// ReasonableShardCount picks a default shard count from the detected CPU
// parallelism: nextPow2(2*GOMAXPROCS), clamped to [1..256]. The query runs
// once at cache construction; the result is never re-read afterwards.
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(2 * p)))
	if n > 256 {
		n = 256
	}
	return n
}

// ShardIndex maps a 64-bit key hash to a shard index. Power-of-two shard
// counts take the mask fast path; any other count falls back to modulo,
// so explicitly configured counts are honored exactly.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x (1 for x == 0).
// Results past 1<<63 clamp to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}
