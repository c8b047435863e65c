package compressor

// Expand appends the expansion of payload to dst and returns the extended
// slice.
//
// A payload byte that is a code in table expands to the expansion of its
// pair's first byte followed by that of its second byte; any other byte is
// a literal. Expansion uses an explicit stack whose depth is bounded by the
// table size. table must be acyclic (see LookupTable.CheckAcyclic).
func Expand(dst, payload []byte, table *LookupTable) []byte {
	if table.Len() == 0 {
		return append(dst, payload...)
	}

	stack := make([]byte, 0, 32)
	for _, b := range payload {
		stack = append(stack[:0], b)
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if p, ok := table.Lookup(top); ok {
				// Second is pushed first so First is expanded first.
				stack = append(stack, p.Second, p.First)
				continue
			}
			dst = append(dst, top)
		}
	}
	return dst
}

// ExpandedLen returns the length Expand would produce without expanding.
func ExpandedLen(payload []byte, table *LookupTable) int {
	var memo [256]int
	var length func(b byte) int
	length = func(b byte) int {
		if memo[b] != 0 {
			return memo[b]
		}
		n := 1
		if p, ok := table.Lookup(b); ok {
			n = length(p.First) + length(p.Second)
		}
		memo[b] = n
		return n
	}

	total := 0
	for _, b := range payload {
		total += length(b)
	}
	return total
}
