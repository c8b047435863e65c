package xip

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/seiflotfy/xip/compressor"
)

// Extension is the conventional file extension of a container.
const Extension = ".xip"

var (
	// ErrFormat indicates a container that cannot be parsed.
	ErrFormat = errors.New("xip: malformed container")
	// ErrDecode indicates text that is not valid UTF-8.
	ErrDecode = errors.New("xip: invalid UTF-8 text")
)

// Config holds configuration for the encoder.
type Config struct {
	IterationLimit int          // Maximum substitution rounds (0 = unbounded)
	Logger         *slog.Logger // Receives per-round debug records (nil = silent)
}

// Option is a functional option for configuring the encoder.
type Option func(*Config)

// WithIterationLimit caps the number of substitution rounds.
// Zero or a negative value removes the cap.
func WithIterationLimit(n int) Option {
	return func(c *Config) {
		c.IterationLimit = n
	}
}

// WithLogger routes round-by-round progress to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Encoder compresses buffers into containers.
//
// An Encoder keeps no state between calls and may be used concurrently.
type Encoder struct {
	config Config
}

// NewEncoder creates a new encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{config: cfg}
}

// Encode compresses data. It never fails: when no substitution code is
// available the payload is data itself and the table is empty.
func (e *Encoder) Encode(data []byte) *Container {
	c := &compressor.Compressor{IterationLimit: e.config.IterationLimit}
	log := e.config.Logger
	if log != nil {
		c.Trace = func(r compressor.Round) {
			log.Debug("substitution round",
				slog.Int("round", r.Index),
				slog.Int("code", int(r.Code)),
				slog.Int("first", int(r.Pair.First)),
				slog.Int("second", int(r.Pair.Second)),
				slog.Int("count", r.Count),
				slog.Int("len", r.Len),
			)
		}
	}

	res := c.Compress(data)
	ct := &Container{Payload: res.Buffer, Entries: res.Table.Entries()}
	if log != nil {
		log.Info("compressed",
			slog.Int("input", len(data)),
			slog.Int("payload", len(ct.Payload)),
			slog.Int("entries", len(ct.Entries)),
			slog.Int("container", ct.Len()),
		)
	}
	return ct
}

// EncodeString compresses UTF-8 text.
func (e *Encoder) EncodeString(text string) (*Container, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: input", ErrDecode)
	}
	return e.Encode([]byte(text)), nil
}

// Decode parses a serialized container and returns the original bytes.
func Decode(data []byte) ([]byte, error) {
	ct, err := ParseContainer(data)
	if err != nil {
		return nil, err
	}
	return ct.Bytes()
}

// DecodeString parses a serialized container and returns the original text.
func DecodeString(data []byte) (string, error) {
	ct, err := ParseContainer(data)
	if err != nil {
		return "", err
	}
	return ct.Text()
}

// Compress encodes text and writes the container to destinationPath.
func Compress(text string, destinationPath string, opts ...Option) error {
	ct, err := NewEncoder(opts...).EncodeString(text)
	if err != nil {
		return err
	}
	data, err := ct.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
		return fmt.Errorf("write container %s: %w", destinationPath, err)
	}
	return nil
}

// Decompress reads the container at containerPath and returns the original
// text.
func Decompress(containerPath string) (string, error) {
	data, err := os.ReadFile(containerPath)
	if err != nil {
		return "", fmt.Errorf("read container %s: %w", containerPath, err)
	}
	text, err := DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", containerPath, err)
	}
	return text, nil
}
