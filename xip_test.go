package xip

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiflotfy/xip/compressor"
)

func mustMarshal(t testing.TB, ct *Container) []byte {
	t.Helper()
	data, err := ct.MarshalBinary()
	require.NoError(t, err)
	return data
}

func TestWorkedExample(t *testing.T) {
	ct, err := NewEncoder().EncodeString("aaa")
	require.NoError(t, err)

	data := mustMarshal(t, ct)
	assert.Equal(t, []byte{0x01, 0x00, 0x61, 0x00, 0x61, 0x61}, data)

	text, err := DecodeString(data)
	require.NoError(t, err)
	assert.Equal(t, "aaa", text)
}

func TestEmptyInput(t *testing.T) {
	ct, err := NewEncoder().EncodeString("")
	require.NoError(t, err)

	data := mustMarshal(t, ct)
	assert.Equal(t, []byte{0x00}, data)

	text, err := DecodeString(data)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"ab",
		"aaa",
		"aaaa",
		"abababab",
		"hello hello hello",
		"user_000001user_000002user_000003",
		"<note><to>Tove</to><from>Jani</from></note>",
		"hello世界 hello世界",
		"🚀rocket🚀rocket",
		"null\x00byte\x00null\x00byte",
		strings.Repeat("ab", 1000),
		strings.Repeat("<tag>x</tag>\n", 200),
	}

	for _, input := range inputs {
		ct, err := NewEncoder().EncodeString(input)
		require.NoError(t, err)

		data := mustMarshal(t, ct)
		require.Equal(t, ct.Len(), len(data))

		text, err := DecodeString(data)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, input, text)
	}
}

func TestContainerShape(t *testing.T) {
	input := strings.Repeat("<user><id>1</id></user>", 40)
	ct, err := NewEncoder().EncodeString(input)
	require.NoError(t, err)
	data := mustMarshal(t, ct)

	n := int(data[0])
	assert.Equal(t, len(ct.Entries), n)
	assert.Equal(t, 1+len(ct.Payload)+3*n, len(data))
	assert.Equal(t, ct.Payload, data[1:len(data)-3*n])
	assert.Less(t, len(data), len(input))

	trailer := data[len(data)-3*n:]
	for i, e := range ct.Entries {
		assert.Equal(t, []byte{e.Code, e.Pair.First, e.Pair.Second}, trailer[3*i:3*i+3])
	}
}

func TestDeterministic(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "users.xml"))
	require.NoError(t, err)

	for _, limit := range []int{0, 1, 10} {
		enc := NewEncoder(WithIterationLimit(limit))
		a := mustMarshal(t, enc.Encode(data))
		b := mustMarshal(t, enc.Encode(data))
		assert.Equal(t, a, b, "limit %d", limit)
	}
}

func TestIterationLimit(t *testing.T) {
	input := []byte(strings.Repeat("the quick brown fox ", 50))
	unbounded := NewEncoder().Encode(input)
	require.Greater(t, len(unbounded.Entries), 3)

	for _, limit := range []int{1, 2, 3} {
		ct := NewEncoder(WithIterationLimit(limit)).Encode(input)
		assert.Len(t, ct.Entries, limit)
		assert.GreaterOrEqual(t, len(ct.Payload), len(unbounded.Payload))

		out, err := Decode(mustMarshal(t, ct))
		require.NoError(t, err)
		assert.Equal(t, input, out)
	}
}

func TestFullAlphabetInput(t *testing.T) {
	input := make([]byte, 0, 768)
	for i := 0; i < 3; i++ {
		for b := 255; b >= 0; b-- {
			input = append(input, byte(b))
		}
	}

	ct := NewEncoder().Encode(input)
	assert.Empty(t, ct.Entries)
	assert.Equal(t, input, ct.Payload)

	data := mustMarshal(t, ct)
	assert.Equal(t, byte(0), data[0])
	assert.Equal(t, input, data[1:])

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestEncodeStringInvalidUTF8(t *testing.T) {
	_, err := NewEncoder().EncodeString("bad\xff")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{"Empty", []byte{}, ErrFormat},
		{"TrailerTooShort", []byte{0x02, 0x00, 'a', 'b'}, ErrFormat},
		{"HeaderOnlyWithCount", []byte{0x01}, ErrFormat},
		{"DuplicateCode", []byte{0x02, 'x', 0x00, 'a', 'b', 0x00, 'c', 'd'}, ErrFormat},
		{"SelfReference", []byte{0x01, 0x00, 0x00, 0x00, 'a'}, ErrFormat},
		{"InvalidUTF8", []byte{0x00, 0xff, 0xfe}, ErrDecode},
		{"InvalidUTF8ViaTable", []byte{0x01, 0x00, 0x00, 0xc3, 0xc3}, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeString(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestDecodeCyclicTableIsFormatError(t *testing.T) {
	_, err := Decode([]byte{0x02, 0x00, 0x00, 'a', 0x01, 0x01, 0x00, 'b'})
	assert.ErrorIs(t, err, ErrFormat)
	assert.ErrorIs(t, err, compressor.ErrCyclicTable)
}

func TestDecodeMinimalTrailer(t *testing.T) {
	// Header plus exactly one entry: empty payload.
	text, err := DecodeString([]byte{0x01, 0x00, 'a', 'b'})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestDecodeBytesAllowsBinary(t *testing.T) {
	out, err := Decode([]byte{0x00, 0xff, 0xfe})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe}, out)
}

func TestCompressDecompressFile(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "users.xml"))
	require.NoError(t, err)

	path := filepath.Join(dir, "users.xml"+Extension)
	require.NoError(t, Compress(string(src), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(src)))

	text, err := Decompress(path)
	require.NoError(t, err)
	assert.Equal(t, string(src), text)

	limited := filepath.Join(dir, "limited"+Extension)
	require.NoError(t, Compress(string(src), limited, WithIterationLimit(2)))
	raw, err := os.ReadFile(limited)
	require.NoError(t, err)
	assert.Equal(t, byte(2), raw[0])
}

func TestDecompressMissingFile(t *testing.T) {
	_, err := Decompress(filepath.Join(t.TempDir(), "missing.xip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecompressCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xip")
	require.NoError(t, os.WriteFile(path, []byte{0x05, 'a'}, 0o644))

	_, err := Decompress(path)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "corrupt.xip")
}

func TestContainerWriteToReadFrom(t *testing.T) {
	ct := NewEncoder().Encode([]byte("abcabcabc"))

	var buf bytes.Buffer
	n, err := ct.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(ct.Len()), n)

	var got Container
	m, err := got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, ct.Payload, got.Payload)
	assert.Equal(t, ct.Entries, got.Entries)
}

func TestContainerTooManyEntries(t *testing.T) {
	ct := &Container{Entries: make([]compressor.Entry, 256)}
	_, err := ct.MarshalBinary()
	assert.Error(t, err)
	_, err = ct.Bytes()
	assert.ErrorIs(t, err, ErrFormat)
}

func TestEncoderLogsRounds(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ct := NewEncoder(WithLogger(logger)).Encode([]byte("aaa"))
	require.Len(t, ct.Entries, 1)

	out := logs.String()
	assert.Contains(t, out, "substitution round")
	assert.Contains(t, out, "round=1")
	assert.Contains(t, out, "code=0")
	assert.Contains(t, out, "first=97")
	assert.Contains(t, out, "container=6")
}

// TestAllTestdataFiles round-trips every file in testdata/.
func TestAllTestdataFiles(t *testing.T) {
	files, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("Failed to read %s: %v", name, err)
			}

			ct, err := NewEncoder().EncodeString(string(data))
			if err != nil {
				t.Fatalf("EncodeString(%s): %v", name, err)
			}
			text, err := DecodeString(mustMarshal(t, ct))
			if err != nil {
				t.Fatalf("DecodeString(%s): %v", name, err)
			}
			if text != string(data) {
				t.Errorf("%s: round trip mismatch", name)
			}
			t.Logf("%s: %d -> %d bytes (%d entries, ratio %.2fx)",
				name, len(data), ct.Len(), len(ct.Entries), float64(len(data))/float64(ct.Len()))
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("testdata", "users.xml"))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	var ct *Container
	for i := 0; i < b.N; i++ {
		ct = NewEncoder().Encode(data)
	}
	b.ReportMetric(float64(len(data))/float64(ct.Len()), "ratio")
}

func BenchmarkDecode(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("testdata", "users.xml"))
	if err != nil {
		b.Fatal(err)
	}
	container, err := NewEncoder().Encode(data).MarshalBinary()
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Decode(container); err != nil {
			b.Fatal(err)
		}
	}
}
