package symtab

import "github.com/cespare/xxhash/v2"

// Unsigned is the set of key types hashed by Integer.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Integer hashes a numeric key to itself, so the bucket is key mod buckets.
func Integer[K Unsigned](key K) uint64 {
	return uint64(key)
}

// Int hashes a non-negative int key to itself.
func Int(key int) uint64 {
	return uint64(key)
}

// String hashes a string key with xxhash.
func String(key string) uint64 {
	return xxhash.Sum64String(key)
}
