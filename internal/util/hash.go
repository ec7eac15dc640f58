// Package util holds internal helpers: key hashing, shard sizing, padding.
package util

import "fmt"

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// Fnv64a is the default key hasher used for shard routing.
// It is a 64-bit FNV-1a over the key's byte representation and covers the
// common key kinds: strings, byte slices/arrays, all integer widths, and
// fmt.Stringer as a last resort. Deterministic for a given key, which is
// what routing requires; it is not a cryptographic hash.
//
// Unsupported key types panic: silently collapsing every key onto one shard
// would be worse than failing loudly. Hosts with exotic keys supply their
// own hasher via Options.Hash.
func Fnv64a[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return hashBytes([]byte(v))
	case []byte:
		return hashBytes(v)
	case [16]byte:
		return hashBytes(v[:])
	case [32]byte:
		return hashBytes(v[:])

	case int:
		return hashUint64(uint64(v))
	case int8:
		return hashUint64(uint64(uint8(v)))
	case int16:
		return hashUint64(uint64(uint16(v)))
	case int32:
		return hashUint64(uint64(uint32(v)))
	case int64:
		return hashUint64(uint64(v))
	case uint:
		return hashUint64(uint64(v))
	case uint8:
		return hashUint64(uint64(v))
	case uint16:
		return hashUint64(uint64(v))
	case uint32:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uintptr:
		return hashUint64(uint64(v))

	case fmt.Stringer:
		return hashBytes([]byte(v.String()))
	default:
		panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; supply a custom hasher", k))
	}
}

func hashBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// hashUint64 folds the 8 little-endian bytes of u without allocating.
func hashUint64(u uint64) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= u & 0xff
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
