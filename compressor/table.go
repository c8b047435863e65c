package compressor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/seiflotfy/xip/symtab"
)

// ErrCyclicTable indicates a lookup table in which some code expands to
// itself, directly or through other codes.
var ErrCyclicTable = errors.New("compressor: cyclic lookup table")

// Pair is an ordered pair of adjacent bytes.
type Pair struct {
	First, Second byte
}

// Index returns the composite index first*256+second.
func (p Pair) Index() uint16 {
	return uint16(p.First)<<8 | uint16(p.Second)
}

func (p Pair) String() string {
	return fmt.Sprintf("(0x%02x,0x%02x)", p.First, p.Second)
}

func hashPair(p Pair) uint64 {
	return uint64(p.Index())
}

// Entry is one substitution: Code stands for Pair.
type Entry struct {
	Code byte
	Pair Pair
}

// LookupTable maps substitution codes to the pairs they replace.
type LookupTable struct {
	codes *symtab.Table[byte, Pair]
}

// NewLookupTable creates an empty table.
func NewLookupTable() *LookupTable {
	return &LookupTable{codes: symtab.New[byte, Pair](symtab.Integer[byte], 0)}
}

// TableFromEntries builds a table from entries. Duplicate codes are
// rejected.
func TableFromEntries(entries []Entry) (*LookupTable, error) {
	lt := NewLookupTable()
	for i, e := range entries {
		if lt.Contains(e.Code) {
			return nil, fmt.Errorf("duplicate code 0x%02x at entry %d", e.Code, i)
		}
		lt.Set(e.Code, e.Pair)
	}
	return lt, nil
}

// Set records that code stands for p.
func (lt *LookupTable) Set(code byte, p Pair) {
	lt.codes.Set(code, p)
}

// Lookup returns the pair code stands for.
func (lt *LookupTable) Lookup(code byte) (Pair, bool) {
	return lt.codes.Lookup(code)
}

// Contains reports whether code is a substitution code.
func (lt *LookupTable) Contains(code byte) bool {
	return lt.codes.Contains(code)
}

// Len returns the number of entries.
func (lt *LookupTable) Len() int {
	return lt.codes.Len()
}

// Entries returns all entries sorted by ascending code.
func (lt *LookupTable) Entries() []Entry {
	entries := make([]Entry, 0, lt.codes.Len())
	for code, p := range lt.codes.All() {
		entries = append(entries, Entry{Code: code, Pair: p})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return int(a.Code) - int(b.Code)
	})
	return entries
}

// CheckAcyclic returns ErrCyclicTable if any code can reach itself while
// being expanded. Tables built by Compress are acyclic by construction.
func (lt *LookupTable) CheckAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	var state [256]uint8

	var visit func(code byte) error
	visit = func(code byte) error {
		switch state[code] {
		case visiting:
			return fmt.Errorf("%w: code 0x%02x", ErrCyclicTable, code)
		case done:
			return nil
		}
		p, ok := lt.Lookup(code)
		if !ok {
			state[code] = done
			return nil
		}
		state[code] = visiting
		if err := visit(p.First); err != nil {
			return err
		}
		if err := visit(p.Second); err != nil {
			return err
		}
		state[code] = done
		return nil
	}

	for _, e := range lt.Entries() {
		if err := visit(e.Code); err != nil {
			return err
		}
	}
	return nil
}
