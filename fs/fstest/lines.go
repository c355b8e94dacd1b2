package fstest

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/lines"
)

// TestLines checks that the line reader behaves identically on the
// provider: records survive every chunk size, Reset rewinds through the
// provider's Seek and directories fail to open.
func TestLines(t *testing.T, filesystem core.FS) {
	TestLinesWithConfig(t, filesystem, POSIXTestConfig())
}

// TestLinesWithConfig runs the line reader checks with behavior
// configuration.
func TestLinesWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	var b strings.Builder
	var want []string
	for i := 0; i < 300; i++ {
		line := fmt.Sprintf("%04d:%s", i, strings.Repeat("ab", i%23))
		want = append(want, line)
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	if err := filesystem.MkdirAll("lines", 0o755); err != nil {
		t.Fatalf("MkdirAll(lines): setup failed: %v", err)
	}
	files := map[string]string{
		"lines/records.txt":  b.String(),
		"lines/empty.txt":    "",
		"lines/trailing.txt": "a\nb\n",
		"lines/bare.txt":     "a\nb",
		"lines/commas.txt":   "x,y,z",
	}
	for name, content := range files {
		if err := filesystem.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
		}
	}

	config.run(t, "Lines", "ChunkSizes", func(t *testing.T) {
		for _, size := range []int{1, 7, 512, lines.DefaultChunkSize, 1 << 20} {
			got, err := lines.ReadAll(filesystem, "lines/records.txt",
				lines.WithDelimiterString("\r\n"), lines.WithChunkSize(size))
			if err != nil {
				t.Fatalf("ReadAll(chunk=%d): got error %v, want nil", size, err)
			}
			if !slices.Equal(got, want) {
				t.Errorf("ReadAll(chunk=%d): got %d records, want %d identical records", size, len(got), len(want))
			}
		}
	})

	config.run(t, "Lines", "Boundaries", func(t *testing.T) {
		cases := []struct {
			name  string
			delim string
			want  []string
		}{
			{"lines/empty.txt", "\n", nil},
			{"lines/trailing.txt", "\n", []string{"a", "b"}},
			{"lines/bare.txt", "\n", []string{"a", "b"}},
			{"lines/commas.txt", ",", []string{"x", "y", "z"}},
		}
		for _, c := range cases {
			got, err := lines.ReadAll(filesystem, c.name, lines.WithDelimiterString(c.delim), lines.WithChunkSize(1))
			if err != nil {
				t.Errorf("ReadAll(%s): got error %v, want nil", c.name, err)
				continue
			}
			if !slices.Equal(got, c.want) {
				t.Errorf("ReadAll(%s): got %q, want %q", c.name, got, c.want)
			}
		}
	})

	config.run(t, "Lines", "Reset", func(t *testing.T) {
		r, err := lines.Open(filesystem, "lines/records.txt", lines.WithDelimiterString("\r\n"), lines.WithChunkSize(64))
		if err != nil {
			t.Fatalf("Open(lines/records.txt): got error %v, want nil", err)
		}
		defer r.Close()

		first, err := r.Collect()
		if err != nil {
			t.Fatalf("Collect(): got error %v, want nil", err)
		}
		second, err := r.Collect()
		if err != nil {
			t.Fatalf("Collect() after restart: got error %v, want nil", err)
		}
		if !slices.Equal(first, second) || len(first) != len(want) {
			t.Errorf("Collect() twice: got %d and %d records, want %d each", len(first), len(second), len(want))
		}
		if _, err := r.Next(); err != io.EOF {
			t.Errorf("Next() after Collect(): got error %v, want io.EOF", err)
		}
	})

	config.run(t, "Lines", "OpenErrors", func(t *testing.T) {
		if _, err := lines.Open(filesystem, "lines/missing.txt"); err == nil {
			t.Errorf("Open(lines/missing.txt): got nil, want error")
		}
		_, err := lines.Open(filesystem, "lines")
		if err == nil {
			t.Fatalf("Open(lines): got nil, want error for directory")
		}
		if code := errors.GetCode(err); code != errors.CodeOpenFailed {
			t.Errorf("Open(lines): got code %s, want %s", code, errors.CodeOpenFailed)
		}
	})

	config.run(t, "Lines", "Close", func(t *testing.T) {
		r, err := lines.Open(filesystem, "lines/bare.txt")
		if err != nil {
			t.Fatalf("Open(lines/bare.txt): got error %v, want nil", err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Close() twice: got error %v, want nil", err)
		}
		if _, err := r.Next(); err == nil || errors.Is(err, io.EOF) {
			t.Errorf("Next() after Close(): got %v, want a read error", err)
		}
	})
}
