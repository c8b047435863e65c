package compressor

import "errors"

// ErrCodesExhausted is returned by Allocate when every byte value is either
// present in the input or already handed out.
var ErrCodesExhausted = errors.New("compressor: substitution codes exhausted")

// CodeAllocator hands out byte values absent from the original input, lowest
// first, each at most once.
type CodeAllocator struct {
	taken     [256]bool
	next      int
	remaining int
}

// NewCodeAllocator builds the pool of codes unused by data.
func NewCodeAllocator(data []byte) *CodeAllocator {
	a := &CodeAllocator{remaining: 256}
	for _, b := range data {
		if !a.taken[b] {
			a.taken[b] = true
			a.remaining--
		}
	}
	return a
}

// Allocate returns the lowest free code and removes it from the pool.
func (a *CodeAllocator) Allocate() (byte, error) {
	for ; a.next < 256; a.next++ {
		if !a.taken[a.next] {
			code := byte(a.next)
			a.taken[a.next] = true
			a.remaining--
			a.next++
			return code, nil
		}
	}
	return 0, ErrCodesExhausted
}

// Remaining returns the number of codes left in the pool.
func (a *CodeAllocator) Remaining() int {
	return a.remaining
}
