package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a practical default for current CPUs. The runtime knows
// the real value but does not export it; 64 is right on amd64 and arm64.
const CacheLineSize = 64

// CacheLinePad separates groups of hot fields into distinct cache lines
// to avoid false sharing between shards.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicInt64 is an atomic int64 occupying exactly one cache line.
// Used for per-shard hit/miss counters updated from many goroutines.
type PaddedAtomicInt64 struct {
	atomic.Int64
	_ [CacheLineSize - 8]byte
}

// PaddedAtomicUint64 is the uint64 counterpart.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// Compile-time checks: each padded counter must be exactly one cache line.
var (
	_ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicInt64{}))]byte
	_ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte
)
