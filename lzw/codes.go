package lzw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrCodeFile indicates a code file that cannot be parsed.
var ErrCodeFile = errors.New("lzw: malformed code file")

// Code file layout:
//
//	<width>,<codes>
//
// width is the number of decimal digits of the largest code; every code is
// left-padded with zeros to width digits and the codes are concatenated
// without separators.

// WriteCodes writes codes in the code file layout.
func WriteCodes(w io.Writer, codes []int) error {
	width := 0
	for _, c := range codes {
		if c < 0 {
			return fmt.Errorf("lzw: negative code %d", c)
		}
		if n := len(strconv.Itoa(c)); n > width {
			width = n
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.Itoa(width))
	bw.WriteByte(',')
	for _, c := range codes {
		fmt.Fprintf(bw, "%0*d", width, c)
	}
	return bw.Flush()
}

// ReadCodes parses a code file.
func ReadCodes(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	head, body, ok := strings.Cut(strings.TrimRight(string(data), "\r\n"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing width separator", ErrCodeFile)
	}
	width, err := strconv.Atoi(head)
	if err != nil || width < 0 {
		return nil, fmt.Errorf("%w: bad width %q", ErrCodeFile, head)
	}
	if width == 0 {
		if body != "" {
			return nil, fmt.Errorf("%w: codes with zero width", ErrCodeFile)
		}
		return nil, nil
	}
	if len(body)%width != 0 {
		return nil, fmt.Errorf("%w: %d digits is not a multiple of width %d", ErrCodeFile, len(body), width)
	}

	codes := make([]int, 0, len(body)/width)
	for off := 0; off < len(body); off += width {
		field := body[off : off+width]
		c, err := strconv.Atoi(field)
		if err != nil || c < 0 {
			return nil, fmt.Errorf("%w: bad code %q at offset %d", ErrCodeFile, field, off)
		}
		codes = append(codes, c)
	}
	return codes, nil
}
