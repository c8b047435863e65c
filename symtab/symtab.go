// Package symtab provides a chained-bucket hash table used as the pair
// frequency counter and as the code lookup table of the xip codec.
package symtab

import "iter"

const (
	// DefaultBuckets is the bucket count of a table created with size <= 0.
	DefaultBuckets = 100

	// maxLoad is the average chain length that triggers a rehash.
	maxLoad = 4
)

// Hasher maps a key to a 64-bit hash. The bucket index is the hash modulo
// the bucket count.
type Hasher[K comparable] func(K) uint64

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Table is an associative map with per-bucket chaining.
//
// A Table is not safe for concurrent use.
type Table[K comparable, V any] struct {
	buckets [][]entry[K, V]
	hash    Hasher[K]
	n       int
}

// New creates an empty table with the given hasher and initial bucket count.
func New[K comparable, V any](hash Hasher[K], size int) *Table[K, V] {
	if size <= 0 {
		size = DefaultBuckets
	}
	return &Table[K, V]{
		buckets: make([][]entry[K, V], size),
		hash:    hash,
	}
}

func (t *Table[K, V]) bucket(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

// Set inserts key or replaces its value.
func (t *Table[K, V]) Set(key K, value V) {
	b := t.bucket(key)
	chain := t.buckets[b]
	for i := range chain {
		if chain[i].key == key {
			chain[i].value = value
			return
		}
	}
	t.buckets[b] = append(chain, entry[K, V]{key: key, value: value})
	t.n++
	if t.n > maxLoad*len(t.buckets) {
		t.grow()
	}
}

// Get returns the value stored for key, or def when key is absent.
func (t *Table[K, V]) Get(key K, def V) V {
	if v, ok := t.Lookup(key); ok {
		return v
	}
	return def
}

// Lookup returns the value stored for key and whether it was present.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	for _, e := range t.buckets[t.bucket(key)] {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	return t.n
}

// Buckets returns the current bucket count.
func (t *Table[K, V]) Buckets() int {
	return len(t.buckets)
}

// All iterates over every entry. The order is unspecified.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, chain := range t.buckets {
			for _, e := range chain {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys returns every key in unspecified order.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, t.n)
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

// grow doubles the bucket count and redistributes all chains.
func (t *Table[K, V]) grow() {
	old := t.buckets
	t.buckets = make([][]entry[K, V], 2*len(old))
	for _, chain := range old {
		for _, e := range chain {
			b := t.bucket(e.key)
			t.buckets[b] = append(t.buckets[b], e)
		}
	}
}
