// Package compressor implements greedy byte-pair substitution over a single
// in-memory buffer and the matching expansion.
package compressor

import "bytes"

// MaxRounds bounds the number of substitution rounds of any run: each round
// consumes one of the 256 byte values.
const MaxRounds = 256

// Round describes one completed substitution.
type Round struct {
	Index int  // 1-based round number
	Pair  Pair // pair that was replaced
	Count int  // overlapping occurrences of Pair before replacement
	Code  byte // code that replaced Pair
	Len   int  // buffer length after replacement
}

// Result is the outcome of Compress.
type Result struct {
	Buffer []byte       // compressed buffer
	Table  *LookupTable // code -> pair, one entry per round
	Rounds int
}

// Compressor runs the substitution loop. The zero value is ready to use and
// compresses until no pair repeats or the code pool runs dry.
//
// A Compressor holds configuration only; every Compress call owns its
// buffer, allocator and table, so one Compressor may be shared.
type Compressor struct {
	// IterationLimit caps the number of rounds. Zero or negative means
	// unbounded.
	IterationLimit int

	// Trace, if set, is called after every round.
	Trace func(Round)
}

// New creates a Compressor with no iteration limit.
func New() *Compressor {
	return &Compressor{}
}

// Compress repeatedly replaces the most frequent adjacent pair of data with
// a byte value that never occurs in data.
//
// Algorithm:
// 1. Count every overlapping adjacent pair of the current buffer
// 2. Stop when no pair occurs twice or the iteration limit is reached
// 3. Allocate the lowest unused byte; stop quietly if none is left
// 4. Record code -> pair and replace every non-overlapping occurrence of the
// pair, scanning left to right
//
// A run such as "aaa" therefore loses only one pair per round even though
// its pair count is 2. data is not modified.
func (c *Compressor) Compress(data []byte) *Result {
	buf := bytes.Clone(data)
	alloc := NewCodeAllocator(data)
	table := NewLookupTable()

	rounds := 0
	for {
		if c.IterationLimit > 0 && rounds >= c.IterationLimit {
			break
		}
		pair, count := Scan(buf)
		if count <= 1 {
			break
		}
		code, err := alloc.Allocate()
		if err != nil {
			// ErrCodesExhausted: keep what was compressed so far.
			break
		}

		table.Set(code, pair)
		buf = bytes.ReplaceAll(buf, []byte{pair.First, pair.Second}, []byte{code})
		rounds++

		if c.Trace != nil {
			c.Trace(Round{
				Index: rounds,
				Pair:  pair,
				Count: count,
				Code:  code,
				Len:   len(buf),
			})
		}
	}

	return &Result{Buffer: buf, Table: table, Rounds: rounds}
}

// Compress runs an unbounded Compressor over data.
func Compress(data []byte) *Result {
	return New().Compress(data)
}
