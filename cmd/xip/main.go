// xip - byte-pair substitution codec CLI
//
// Usage:
//
//	xip compress [--iterations=N] [--out=PATH] [file]  Compress UTF-8 text into a container
//	xip decompress [--out=PATH] [--stdout] file...     Restore text from containers
//	xip inspect [file]                                 Show header, payload and table
//	xip stats [--iterations=N] [file]                  Compare with flate, gzip, zstd and xz
//	xip lzw-encode [--out=PATH] [file]                 Write an LZW code file
//	xip lzw-decode [--out=PATH] [file]                 Restore text from an LZW code file
//	xip version                                        Print version info
//
// Every command accepts --config=PATH (YAML) and --log-level=LEVEL.
// If no file is given, or the file is "-", input is read from stdin.
// Compressed output defaults to file+extension, or stdout when reading stdin.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	units "github.com/dsnet/golib/unitconv"

	"github.com/seiflotfy/xip"
	"github.com/seiflotfy/xip/compressor"
	"github.com/seiflotfy/xip/internal/baseline"
	"github.com/seiflotfy/xip/lzw"
)

const (
	libVersion   = "0.1.0"
	lzwExtension = ".lzw"
	stdio        = "-"
)

var errUsage = errors.New("missing command")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "xip: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	cfg    Config
	out    string
	stdout bool
	files  []string
}

type cli struct {
	opts   options
	stdin  io.Reader
	stdout io.Writer
	log    *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}

	cmd := args[0]
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "xip %s\n", libVersion)
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}

	opts, err := parseArgs(args[1:])
	if err != nil {
		return err
	}
	level, err := opts.cfg.level()
	if err != nil {
		return err
	}
	c := &cli{
		opts:   opts,
		stdin:  stdin,
		stdout: stdout,
		log:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	switch cmd {
	case "compress":
		return c.compress()
	case "decompress":
		return c.decompress()
	case "inspect":
		return c.inspect()
	case "stats":
		return c.stats()
	case "lzw-encode":
		return c.lzwEncode()
	case "lzw-decode":
		return c.lzwDecode()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func parseArgs(args []string) (options, error) {
	cfg := defaultConfig()
	for _, arg := range args {
		if path, ok := strings.CutPrefix(arg, "--config="); ok {
			loaded, err := loadConfig(path)
			if err != nil {
				return options{}, err
			}
			cfg = loaded
		}
	}

	opts := options{cfg: cfg}
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--config="):
			// loaded above
		case strings.HasPrefix(arg, "--iterations="):
			n, err := parseIntArg(arg, "--iterations=")
			if err != nil || n < 0 {
				return opts, fmt.Errorf("invalid %s", arg)
			}
			opts.cfg.IterationLimit = n
		case strings.HasPrefix(arg, "--out="):
			opts.out = strings.TrimPrefix(arg, "--out=")
		case arg == "--stdout":
			opts.stdout = true
		case strings.HasPrefix(arg, "--log-level="):
			opts.cfg.LogLevel = strings.TrimPrefix(arg, "--log-level=")
		case arg == stdio || !strings.HasPrefix(arg, "-"):
			opts.files = append(opts.files, arg)
		default:
			return opts, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return opts, opts.cfg.validate()
}

func parseIntArg(arg, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(arg, prefix))
}

// singleInput returns the one input file of a command, or stdio.
func (c *cli) singleInput(cmd string) (string, error) {
	switch len(c.opts.files) {
	case 0:
		return stdio, nil
	case 1:
		return c.opts.files[0], nil
	default:
		return "", fmt.Errorf("%s takes at most one file", cmd)
	}
}

func (c *cli) readInput(name string) ([]byte, error) {
	if name == stdio {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return data, nil
}

func (c *cli) writeOutput(name string, data []byte) error {
	if name == stdio {
		_, err := c.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// outputName picks the destination of a command that turns name into a new
// file with the given extension.
func (c *cli) outputName(name, ext string) string {
	switch {
	case c.opts.out != "":
		return c.opts.out
	case c.opts.stdout || name == stdio:
		return stdio
	default:
		return name + ext
	}
}

func (c *cli) encoder() *xip.Encoder {
	return xip.NewEncoder(
		xip.WithIterationLimit(c.opts.cfg.IterationLimit),
		xip.WithLogger(c.log),
	)
}

func (c *cli) compress() error {
	name, err := c.singleInput("compress")
	if err != nil {
		return err
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}

	ct, err := c.encoder().EncodeString(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	container, err := ct.MarshalBinary()
	if err != nil {
		return err
	}

	dst := c.outputName(name, c.opts.cfg.Extension)
	if err := c.writeOutput(dst, container); err != nil {
		return err
	}
	if dst != stdio {
		fmt.Fprintf(c.stdout, "%s -> %s: %s -> %s (%.2fx, %d entries)\n",
			name, dst, formatSize(len(data)), formatSize(len(container)),
			ratio(len(data), len(container)), len(ct.Entries))
	}
	return nil
}

func (c *cli) decompress() error {
	files := c.opts.files
	if len(files) == 0 {
		files = []string{stdio}
	}
	if c.opts.out != "" && len(files) > 1 {
		return fmt.Errorf("--out needs exactly one container, got %d", len(files))
	}

	cache, err := xip.NewDecodeCache(c.opts.cfg.CacheSize)
	if err != nil {
		return err
	}

	ext := c.opts.cfg.Extension
	for _, name := range files {
		data, err := c.readInput(name)
		if err != nil {
			return err
		}
		text, err := cache.DecodeString(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		dst := c.opts.out
		switch {
		case dst != "":
		case c.opts.stdout || name == stdio:
			dst = stdio
		case strings.HasSuffix(name, ext) && len(name) > len(ext):
			dst = strings.TrimSuffix(name, ext)
		default:
			return fmt.Errorf("%s: no %s extension; use --out or --stdout", name, ext)
		}
		if err := c.writeOutput(dst, []byte(text)); err != nil {
			return err
		}
		c.log.Info("decompressed", slog.String("container", name), slog.String("output", dst), slog.Int("bytes", len(text)))
	}
	c.log.Debug("decode cache", slog.Int("entries", cache.Len()))
	return nil
}

func (c *cli) inspect() error {
	name, err := c.singleInput("inspect")
	if err != nil {
		return err
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}
	ct, err := xip.ParseContainer(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	table, err := ct.Table()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	w := c.stdout
	fmt.Fprintf(w, "container: %d bytes\n", len(data))
	fmt.Fprintf(w, "entries:   %d\n", len(ct.Entries))
	fmt.Fprintf(w, "payload:   %d bytes\n", len(ct.Payload))
	fmt.Fprintf(w, "expanded:  %d bytes\n", compressor.ExpandedLen(ct.Payload, table))
	for _, e := range ct.Entries {
		expansion := compressor.Expand(nil, []byte{e.Code}, table)
		fmt.Fprintf(w, "  0x%02x -> %v %q\n", e.Code, e.Pair, expansion)
	}
	return nil
}

func (c *cli) stats() error {
	name, err := c.singleInput("stats")
	if err != nil {
		return err
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}

	ct := c.encoder().Encode(data)
	results, err := baseline.Measure(data)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "codec\tsize\tratio\n")
	fmt.Fprintf(tw, "original\t%s\t%.2fx\n", formatSize(len(data)), 1.0)
	fmt.Fprintf(tw, "xip\t%s\t%.2fx\n", formatSize(ct.Len()), ratio(len(data), ct.Len()))
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%.2fx\n", r.Codec, formatSize(r.Size), r.Ratio(len(data)))
	}
	fmt.Fprintf(tw, "\nxip table: %d entries\n", len(ct.Entries))
	return tw.Flush()
}

func (c *cli) lzwEncode() error {
	name, err := c.singleInput("lzw-encode")
	if err != nil {
		return err
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := lzw.WriteCodes(&buf, lzw.Encode(string(data))); err != nil {
		return err
	}
	return c.writeOutput(c.outputName(name, lzwExtension), buf.Bytes())
}

func (c *cli) lzwDecode() error {
	name, err := c.singleInput("lzw-decode")
	if err != nil {
		return err
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}

	codes, err := lzw.ReadCodes(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	text, err := lzw.Decode(codes)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	dst := c.opts.out
	if dst == "" {
		dst = stdio
	}
	return c.writeOutput(dst, []byte(text))
}

func formatSize(n int) string {
	s := units.FormatPrefix(float64(n), units.Base1024, 2)
	return strings.Replace(s, ".00", "", -1) + "B"
}

func ratio(original, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(original) / float64(compressed)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `xip - byte-pair substitution codec

Usage:
  xip compress [--iterations=N] [--out=PATH] [file]  Compress UTF-8 text into a container
  xip decompress [--out=PATH] [--stdout] file...     Restore text from containers
  xip inspect [file]                                 Show header, payload and table
  xip stats [--iterations=N] [file]                  Compare with flate, gzip, zstd and xz
  xip lzw-encode [--out=PATH] [file]                 Write an LZW code file
  xip lzw-decode [--out=PATH] [file]                 Restore text from an LZW code file
  xip version                                        Print version info

Flags:
  --config=PATH      YAML file with iteration_limit, extension, log_level, cache_size
  --log-level=LEVEL  debug, info, warn or error (default warn)

If no file is given, or the file is "-", input is read from stdin.`)
}
