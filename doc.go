// Package xip provides lossless byte-pair substitution compression of text.
//
// # Overview
//
// The encoder repeatedly finds the most frequent pair of adjacent bytes and
// replaces it with a byte value that never occurs in the input. Every
// replacement is recorded in a lookup table of at most 255 entries. The
// result is a self-describing container:
//
//	[N][payload][N × (code, first, second)]
//
// Decoding rebuilds the table from the last 3N bytes and expands every
// payload byte recursively until only literal bytes remain.
//
// # When to Use xip
//
// xip is a small, dependency-free format for text with repeated short
// sequences: markup, configuration files, logs. Compression stops when no
// pair repeats or when all 256 byte values are taken, so inputs with high
// byte diversity (binary data, text in non-Latin scripts) compress little or
// not at all. General-purpose codecs such as zstd or xz compress better; the
// xip stats command reports the difference for a given file.
//
// # Basic Usage
//
//	// Compress text into a container file
//	err := xip.Compress(text, "notes.xml.xip")
//
//	// And back
//	text, err := xip.Decompress("notes.xml.xip")
//
//	// In memory, with a bounded number of rounds
//	ct := xip.NewEncoder(xip.WithIterationLimit(32)).Encode(data)
//	buf, _ := ct.MarshalBinary()
//	original, err := xip.Decode(buf)
//
// # Performance Characteristics
//
// Each round scans and rewrites the whole buffer, and there are at most 256
// rounds, so encoding is O(256 × n). Decoding is O(m) in the output size.
// Every call owns its own state; encoders and decoders may run concurrently.
package xip
