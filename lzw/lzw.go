// Package lzw implements Lempel-Ziv-Welch coding of text into a sequence of
// integer codes, and the decimal code file used to store them.
//
// The dictionary starts with the 256 single-byte strings; each new entry
// takes the next free code, without limit.
package lzw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dsnet/golib/errs"

	"github.com/seiflotfy/xip/symtab"
)

const alphabetSize = 256

// ErrBadCode indicates a code that is neither in the dictionary nor the
// next code to be defined.
var ErrBadCode = errors.New("lzw: bad compressed code")

// Encode returns the LZW codes of text.
func Encode(text string) []int {
	dict := symtab.New[string, int](symtab.String, 0)
	for i := 0; i < alphabetSize; i++ {
		dict.Set(string([]byte{byte(i)}), i)
	}

	codes := make([]int, 0, len(text)/2+1)
	start := 0
	for i := 0; i < len(text); i++ {
		wc := text[start : i+1]
		if dict.Contains(wc) {
			continue
		}
		codes = append(codes, dict.Get(text[start:i], 0))
		dict.Set(wc, dict.Len())
		start = i
	}
	if start < len(text) {
		codes = append(codes, dict.Get(text[start:], 0))
	}
	return codes
}

// Decode reverses Encode.
func Decode(codes []int) (text string, err error) {
	defer errs.Recover(&err)
	if len(codes) == 0 {
		return "", nil
	}

	dict := symtab.New[int, string](symtab.Int, 0)
	for i := 0; i < alphabetSize; i++ {
		dict.Set(i, string([]byte{byte(i)}))
	}

	errs.Assert(codes[0] >= 0 && codes[0] < alphabetSize, ErrBadCode)
	w := dict.Get(codes[0], "")

	var sb strings.Builder
	sb.WriteString(w)
	for pos, k := range codes[1:] {
		entry, ok := "", false
		if k >= 0 {
			entry, ok = dict.Lookup(k)
		}
		if !ok {
			// The code being defined by this very step (cScSc case).
			if k != dict.Len() {
				errs.Panic(fmt.Errorf("%w: %d at position %d", ErrBadCode, k, pos+1))
			}
			entry = w + w[:1]
		}
		sb.WriteString(entry)
		dict.Set(dict.Len(), w+entry[:1])
		w = entry
	}
	return sb.String(), nil
}
