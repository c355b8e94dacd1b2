package lines_test

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkSizes covers single-byte reads, sizes that split multi-byte
// delimiters, the default and a size larger than any test input.
var chunkSizes = []int{1, 2, 3, 5, 7, 64, lines.DefaultChunkSize, 1 << 16}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, data := range files {
		m[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return m
}

func readAll(t *testing.T, r *lines.Reader) []string {
	t.Helper()
	var out []string
	for {
		line, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, line)
	}
}

func TestReader_Records(t *testing.T) {
	tests := []struct {
		name  string
		input string
		delim string
		want  []string
	}{
		{name: "empty file", input: "", delim: "\n", want: nil},
		{name: "no trailing delimiter", input: "a\nb", delim: "\n", want: []string{"a", "b"}},
		{name: "trailing delimiter", input: "a\nb\n", delim: "\n", want: []string{"a", "b"}},
		{name: "single record", input: "hello", delim: "\n", want: []string{"hello"}},
		{name: "only delimiter", input: "\n", delim: "\n", want: []string{""}},
		{name: "consecutive delimiters", input: "a\n\nb", delim: "\n", want: []string{"a", "", "b"}},
		{name: "two trailing delimiters", input: "a\n\n", delim: "\n", want: []string{"a", ""}},
		{name: "comma", input: "x,y,z", delim: ",", want: []string{"x", "y", "z"}},
		{name: "crlf", input: "one\r\ntwo\r\nthree", delim: "\r\n", want: []string{"one", "two", "three"}},
		{name: "lone cr kept", input: "a\rb\r\nc", delim: "\r\n", want: []string{"a\rb", "c"}},
		{name: "overlapping delimiter", input: "aaa--b---c", delim: "--", want: []string{"aaa", "b", "-c"}},
		{name: "long delimiter", input: "<END>x<END><END>y", delim: "<END>", want: []string{"", "x", "", "y"}},
		{name: "multibyte text", input: "héllo\nwörld\n日本", delim: "\n", want: []string{"héllo", "wörld", "日本"}},
	}

	for _, tt := range tests {
		for _, size := range chunkSizes {
			t.Run(fmt.Sprintf("%s/chunk=%d", tt.name, size), func(t *testing.T) {
				fsys := mapFS(map[string]string{"f.txt": tt.input})
				r, err := lines.Open(fsys, "f.txt", lines.WithDelimiterString(tt.delim), lines.WithChunkSize(size))
				require.NoError(t, err)
				defer r.Close()

				assert.Equal(t, tt.want, readAll(t, r))

				// Exhausted readers keep returning io.EOF.
				_, err = r.Next()
				assert.Equal(t, io.EOF, err)
				_, err = r.Next()
				assert.Equal(t, io.EOF, err)
			})
		}
	}
}

func TestReader_CommaChunkOfOne(t *testing.T) {
	fsys := mapFS(map[string]string{"csv": "x,y,z"})
	r, err := lines.Open(fsys, "csv", lines.WithDelimiter([]byte(",")), lines.WithChunkSize(1))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"x", "y", "z"}, readAll(t, r))
	assert.Equal(t, int64(5), r.Stats().BytesRead)
	assert.Equal(t, 5, r.Stats().Chunks)
}

func TestReader_Defaults(t *testing.T) {
	r, err := lines.Open(mapFS(map[string]string{"f": "a"}), "f")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []byte("\n"), r.Delimiter())
	assert.Equal(t, "f", r.Name())
}

// TestReader_Reconstruction joins the records back together and checks the
// original bytes come out, for random inputs, delimiters and chunk sizes.
func TestReader_Reconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte("ab\n,-")
	delims := []string{"\n", ",", "--", "a\n", "-,-"}

	for i := 0; i < 200; i++ {
		buf := make([]byte, rng.Intn(200))
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		input := string(buf)
		delim := delims[rng.Intn(len(delims))]
		size := chunkSizes[rng.Intn(len(chunkSizes))]

		fsys := mapFS(map[string]string{"f": input})
		r, err := lines.Open(fsys, "f", lines.WithDelimiterString(delim), lines.WithChunkSize(size))
		require.NoError(t, err)

		records := readAll(t, r)
		want, trailing := split(input, delim)
		require.Len(t, records, want, "input %q delim %q", input, delim)

		got := strings.Join(records, delim)
		if trailing {
			got += delim
		}
		require.Equal(t, input, got, "input %q delim %q chunk %d", input, delim, size)
		require.NoError(t, r.Close())
	}
}

// split scans input for non-overlapping delimiters left to right. It returns
// the number of records a reader should produce and whether the input ends
// with a delimiter.
func split(input, delim string) (int, bool) {
	n := 0
	for {
		i := strings.Index(input, delim)
		if i < 0 {
			break
		}
		n++
		input = input[i+len(delim):]
	}
	if input != "" {
		return n + 1, false
	}
	return n, n > 0
}

func TestReader_ChunkSizeIndependence(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "record-%d;%s\r\n", i, strings.Repeat("x", i%37))
	}
	fsys := mapFS(map[string]string{"big": b.String()})

	var want []string
	for _, size := range chunkSizes {
		got, err := lines.ReadAll(fsys, "big", lines.WithDelimiterString("\r\n"), lines.WithChunkSize(size))
		require.NoError(t, err)
		if want == nil {
			want = got
			require.Len(t, want, 500)
			continue
		}
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestReader_Reset(t *testing.T) {
	fsys := mapFS(map[string]string{"f": "one\ntwo\nthree\n"})
	r, err := lines.Open(fsys, "f", lines.WithChunkSize(3))
	require.NoError(t, err)
	defer r.Close()

	first := readAll(t, r)
	require.NoError(t, r.Reset())
	second := readAll(t, r)
	assert.Equal(t, []string{"one", "two", "three"}, first)
	assert.Equal(t, first, second)

	// Reset part way through starts over.
	line, err := r.Next()
	require.Error(t, err)
	assert.Equal(t, io.EOF, err)
	require.NoError(t, r.Reset())
	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", line)
	require.NoError(t, r.Reset())
	assert.Equal(t, first, readAll(t, r))
}

func TestReader_MemoryBound(t *testing.T) {
	const (
		chunk   = 16
		longest = 300
	)
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString(strings.Repeat("y", i%longest))
		b.WriteString("||")
	}
	input := b.String()
	fsys := mapFS(map[string]string{"f": input})

	r, err := lines.Open(fsys, "f", lines.WithDelimiterString("||"), lines.WithChunkSize(chunk))
	require.NoError(t, err)
	defer r.Close()

	n := len(readAll(t, r))
	assert.Equal(t, 2000, n)

	stats := r.Stats()
	assert.Equal(t, int64(len(input)), stats.BytesRead)
	assert.Equal(t, 2000, stats.Records)
	assert.LessOrEqual(t, stats.MaxBuffered, longest+2+chunk)
	assert.Less(t, stats.MaxBuffered, len(input)/100)
}

func TestReader_DecodeErrorSkipsRecord(t *testing.T) {
	fsys := mapFS(map[string]string{"f": "ok\n\xff\xfe\nnext"})

	for _, size := range []int{1, 4, 4096} {
		t.Run(fmt.Sprintf("chunk=%d", size), func(t *testing.T) {
			r, err := lines.Open(fsys, "f", lines.WithChunkSize(size))
			require.NoError(t, err)
			defer r.Close()

			line, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, "ok", line)

			_, err = r.Next()
			require.Error(t, err)
			assert.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))
			assert.True(t, errors.Is(err, lines.ErrInvalidEncoding))
			var perr errors.PlatformError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 1, perr.Context()["record"])
			assert.Equal(t, int64(3), perr.Context()["offset"])

			line, err = r.Next()
			require.NoError(t, err)
			assert.Equal(t, "next", line)

			_, err = r.Next()
			assert.Equal(t, io.EOF, err)
			assert.Equal(t, 1, r.Stats().DecodeErrors)
		})
	}
}

func TestReader_DecodeErrorInFinalRecord(t *testing.T) {
	r, err := lines.Open(mapFS(map[string]string{"f": "a\n\xc3"}), "f")
	require.NoError(t, err)
	defer r.Close()

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = r.Next()
	assert.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Replacement(t *testing.T) {
	got, err := lines.ReadAll(mapFS(map[string]string{"f": "ok\n\xff\xfe\nnext"}), "f", lines.WithReplacement())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "\uFFFD", "next"}, got)
}

func TestReader_Encodings(t *testing.T) {
	t.Run("latin1", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "caf\xe9\nna\xefve"})
		got, err := lines.ReadAll(fsys, "f", lines.WithEncodingName("ISO-8859-1"))
		require.NoError(t, err)
		assert.Equal(t, []string{"café", "naïve"}, got)
	})

	t.Run("utf-16le delimiter is encoded", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "a\x00\n\x00b\x00"})
		for _, size := range []int{1, 3, 4096} {
			got, err := lines.ReadAll(fsys, "f", lines.WithEncodingName("UTF-16LE"), lines.WithChunkSize(size))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, got)
		}
	})

	t.Run("utf-16le encoded replacement character is valid", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "a\x00\xfd\xff\n\x00b\x00"})
		got, err := lines.ReadAll(fsys, "f", lines.WithEncodingName("UTF-16LE"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a�", "b"}, got)
	})

	t.Run("utf-16le lone surrogate is invalid", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "a\x00\xfd\xff\x00\xd8\n\x00b\x00"})
		r, err := lines.Open(fsys, "f", lines.WithEncodingName("UTF-16LE"))
		require.NoError(t, err)
		defer func() { _ = r.Close() }()

		_, err = r.Next()
		assert.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))

		line, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, "b", line)
	})

	t.Run("latin1 has no replacement character", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "\xff\xfd\n"})
		got, err := lines.ReadAll(fsys, "f", lines.WithEncodingName("ISO-8859-1"))
		require.NoError(t, err)
		assert.Equal(t, []string{"ÿý"}, got)
	})

	t.Run("utf-8 by name", func(t *testing.T) {
		fsys := mapFS(map[string]string{"f": "ok\n\xff"})
		_, err := lines.ReadAll(fsys, "f", lines.WithEncodingName("UTF-8"))
		assert.Equal(t, errors.CodeDecodeFailed, errors.GetCode(err))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := lines.Open(mapFS(map[string]string{"f": ""}), "f", lines.WithEncodingName("no-such-charset"))
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})
}

func TestOpen_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/file.txt": &fstest.MapFile{Data: []byte("x")},
	}

	t.Run("missing", func(t *testing.T) {
		_, err := lines.Open(fsys, "nope.txt")
		require.Error(t, err)
		assert.Equal(t, errors.CodeOpenFailed, errors.GetCode(err))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := lines.Open(fsys, "dir")
		require.Error(t, err)
		assert.Equal(t, errors.CodeOpenFailed, errors.GetCode(err))
		assert.True(t, errors.Is(err, core.ErrIsDirectory))
	})

	t.Run("zero chunk size", func(t *testing.T) {
		_, err := lines.Open(fsys, "dir/file.txt", lines.WithChunkSize(0))
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	t.Run("empty delimiter", func(t *testing.T) {
		_, err := lines.Open(fsys, "dir/file.txt", lines.WithDelimiter(nil))
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		_, err = lines.Open(fsys, "dir/file.txt", lines.WithDelimiterString(""))
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	t.Run("nil handle", func(t *testing.T) {
		_, err := lines.New(nil)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})
}

// read is one scripted result of handle.Read.
type read struct {
	data string
	err  error
}

// handle replays scripted reads and counts closes.
type handle struct {
	reads   []read
	next    int
	closes  int
	seekErr error
}

func (h *handle) Read(p []byte) (int, error) {
	if h.next >= len(h.reads) {
		return 0, io.EOF
	}
	r := h.reads[h.next]
	h.next++
	return copy(p, r.data), r.err
}

func (h *handle) Seek(offset int64, whence int) (int64, error) {
	if h.seekErr != nil {
		return 0, h.seekErr
	}
	h.next = 0
	return 0, nil
}

func (h *handle) Close() error {
	h.closes++
	return nil
}

func TestReader_DataWithEOF(t *testing.T) {
	h := &handle{reads: []read{{data: "a\nb", err: io.EOF}}}
	r, err := lines.New(h)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, readAll(t, r))
}

func TestReader_StickyReadError(t *testing.T) {
	boom := fmt.Errorf("device removed")
	h := &handle{reads: []read{{data: "a\nb"}, {err: boom}}}
	r, err := lines.New(h)
	require.NoError(t, err)

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = r.Next()
	require.Error(t, err)
	assert.Equal(t, errors.CodeReadFailed, errors.GetCode(err))
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.IsRetryable(err))

	_, again := r.Next()
	assert.Equal(t, err, again)
	assert.Equal(t, err, r.Reset())

	require.NoError(t, r.Close())
	assert.Equal(t, 1, h.closes)
}

func TestReader_ErrorAfterData(t *testing.T) {
	boom := fmt.Errorf("bad sector")
	h := &handle{reads: []read{{data: "a\nb", err: boom}}}
	r, err := lines.New(h)
	require.NoError(t, err)

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = r.Next()
	assert.True(t, errors.Is(err, boom))
}

func TestReader_NoProgress(t *testing.T) {
	reads := make([]read, 200)
	h := &handle{reads: reads}
	r, err := lines.New(h)
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrNoProgress))
	assert.Equal(t, errors.CodeReadFailed, errors.GetCode(err))
}

func TestReader_SeekFailure(t *testing.T) {
	h := &handle{reads: []read{{data: "a"}}, seekErr: fmt.Errorf("pipe")}
	r, err := lines.New(h)
	require.NoError(t, err)

	err = r.Reset()
	assert.Equal(t, errors.CodeReadFailed, errors.GetCode(err))
	_, err = r.Next()
	assert.Equal(t, errors.CodeReadFailed, errors.GetCode(err))
}

func TestReader_Close(t *testing.T) {
	h := &handle{reads: []read{{data: "a\nb\n"}}}
	r, err := lines.New(h)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, h.closes)

	_, err = r.Next()
	require.Error(t, err)
	assert.Equal(t, errors.CodeReadFailed, errors.GetCode(err))
	assert.True(t, errors.Is(err, fs.ErrClosed))
	assert.False(t, errors.IsRetryable(err))

	err = r.Reset()
	assert.True(t, errors.Is(err, fs.ErrClosed))
	assert.Equal(t, errors.ClassificationPermanent, errors.GetClassification(err))
}

func TestReader_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	r, err := lines.Open(mapFS(map[string]string{"f": "a\nb"}), "f", lines.WithLogger(logger))
	require.NoError(t, err)
	defer r.Close()

	readAll(t, r)
	assert.Contains(t, buf.String(), "end of input")
	assert.Contains(t, buf.String(), "path=f")
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
