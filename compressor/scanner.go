package compressor

import "github.com/seiflotfy/xip/symtab"

// pairBuckets sizes the counter so that a typical text buffer, which has a
// few thousand distinct pairs, rarely triggers a rehash.
const pairBuckets = 1024

// Count returns the number of occurrences of every adjacent pair in buf,
// counting overlapping windows.
func Count(buf []byte) *symtab.Table[Pair, int] {
	counts := symtab.New[Pair, int](hashPair, pairBuckets)
	for i := 0; i+1 < len(buf); i++ {
		p := Pair{First: buf[i], Second: buf[i+1]}
		counts.Set(p, counts.Get(p, 0)+1)
	}
	return counts
}

// Scan returns the most frequent adjacent pair in buf and its count.
//
// Ties go to the pair with the lowest composite index. A buffer shorter
// than two bytes has no pairs and yields a zero count.
func Scan(buf []byte) (Pair, int) {
	if len(buf) < 2 {
		return Pair{}, 0
	}

	var best Pair
	bestCount := 0
	for p, n := range Count(buf).All() {
		if n > bestCount || (n == bestCount && p.Index() < best.Index()) {
			best, bestCount = p, n
		}
	}
	return best, bestCount
}
