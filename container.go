package xip

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/seiflotfy/xip/compressor"
)

const (
	headerSize = 1
	entrySize  = 3   // code, first, second
	maxEntries = 255 // largest count the header byte can carry
)

// Wire format:
//
//	count   = uint8 N
//	payload = compressed bytes, no length prefix
//	table   = N × (code uint8, first uint8, second uint8)
//
// The payload is every byte between the header and the trailing 3N bytes.
// N = 0 means no substitution happened and the payload is the original
// data verbatim.

// Container is a compressed payload together with the table needed to
// expand it.
type Container struct {
	Payload []byte
	Entries []compressor.Entry
}

// Len returns the serialized size in bytes.
func (c *Container) Len() int {
	return headerSize + len(c.Payload) + entrySize*len(c.Entries)
}

// Table builds the lookup table and checks that it can be expanded.
func (c *Container) Table() (*compressor.LookupTable, error) {
	if len(c.Entries) > maxEntries {
		return nil, fmt.Errorf("%w: %d table entries exceed %d", ErrFormat, len(c.Entries), maxEntries)
	}
	table, err := compressor.TableFromEntries(c.Entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := table.CheckAcyclic(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return table, nil
}

// Bytes expands the payload back to the original bytes.
func (c *Container) Bytes() ([]byte, error) {
	table, err := c.Table()
	if err != nil {
		return nil, err
	}
	dst := make([]byte, 0, compressor.ExpandedLen(c.Payload, table))
	return compressor.Expand(dst, c.Payload, table), nil
}

// Text expands the payload and returns it as UTF-8 text.
func (c *Container) Text() (string, error) {
	data, err := c.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: decoded %d bytes", ErrDecode, len(data))
	}
	return string(data), nil
}

// AppendBinary appends the serialized container to b.
func (c *Container) AppendBinary(b []byte) ([]byte, error) {
	if len(c.Entries) > maxEntries {
		return b, fmt.Errorf("xip: %d table entries exceed %d", len(c.Entries), maxEntries)
	}
	b = append(b, byte(len(c.Entries)))
	b = append(b, c.Payload...)
	for _, e := range c.Entries {
		b = append(b, e.Code, e.Pair.First, e.Pair.Second)
	}
	return b, nil
}

// MarshalBinary serializes the container.
func (c *Container) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, c.Len()))
}

// UnmarshalBinary parses a serialized container. The payload is copied.
func (c *Container) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: empty container", ErrFormat)
	}

	n := int(data[0])
	trailerStart := len(data) - entrySize*n
	if trailerStart < headerSize {
		return fmt.Errorf("%w: %d bytes cannot hold header and %d table entries", ErrFormat, len(data), n)
	}

	tmp := Container{
		Payload: append([]byte(nil), data[headerSize:trailerStart]...),
		Entries: make([]compressor.Entry, n),
	}
	trailer := data[trailerStart:]
	for i := range tmp.Entries {
		off := i * entrySize
		tmp.Entries[i] = compressor.Entry{
			Code: trailer[off],
			Pair: compressor.Pair{First: trailer[off+1], Second: trailer[off+2]},
		}
	}
	if _, err := tmp.Table(); err != nil {
		return fmt.Errorf("table at offset %d: %w", trailerStart, err)
	}

	*c = tmp
	return nil
}

// ParseContainer parses a serialized container.
func ParseContainer(data []byte) (*Container, error) {
	c := &Container{}
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return c, nil
}

// WriteTo serializes the container to w.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), err
	}
	if n != len(data) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// ReadFrom reads r to EOF and parses the container. The table sits at the
// end of the stream, so the whole container is buffered.
func (c *Container) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	total := int64(len(data))
	if err != nil {
		return total, fmt.Errorf("read container: %w", err)
	}
	return total, c.UnmarshalBinary(data)
}
