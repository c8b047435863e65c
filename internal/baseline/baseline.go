// Package baseline measures general-purpose codecs on the same input as xip
// so the stats command can report how the byte-pair container compares.
package baseline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Result is the compressed size produced by one codec.
type Result struct {
	Codec string
	Size  int
}

// Ratio returns original/compressed, or 0 for an empty result.
func (r Result) Ratio(original int) float64 {
	if r.Size == 0 {
		return 0
	}
	return float64(original) / float64(r.Size)
}

type codec struct {
	name   string
	encode func(w io.Writer) (io.WriteCloser, error)
}

var codecs = []codec{
	{"flate", func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	}},
	{"gzip", func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	}},
	{"zstd", func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}},
	{"xz", func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	}},
}

// Codecs returns the names of the measured codecs in report order.
func Codecs() []string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.name
	}
	return names
}

// Measure compresses data with every codec and returns the sizes.
func Measure(data []byte) ([]Result, error) {
	results := make([]Result, 0, len(codecs))
	for _, c := range codecs {
		n, err := compressedSize(c, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		results = append(results, Result{Codec: c.name, Size: n})
	}
	return results, nil
}

func compressedSize(c codec, data []byte) (int, error) {
	var buf bytes.Buffer
	w, err := c.encode(&buf)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}
