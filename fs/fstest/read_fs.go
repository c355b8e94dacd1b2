package fstest

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// TestReadFS tests Open, Stat, ReadDir, ReadFile and Exists.
func TestReadFS(t *testing.T, filesystem core.FS) {
	TestReadFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestReadFSWithConfig tests read operations with behavior configuration.
func TestReadFSWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	content := []byte("first line\nsecond line\n")
	if err := filesystem.MkdirAll("readdir", 0o755); err != nil {
		t.Fatalf("MkdirAll(readdir): setup failed: %v", err)
	}
	for _, name := range []string{"readdir/b.txt", "readdir/a.txt"} {
		if err := filesystem.WriteFile(name, content, 0o644); err != nil {
			t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
		}
	}

	config.run(t, "ReadFS", "Open", func(t *testing.T) {
		f, err := filesystem.Open("readdir/a.txt")
		if err != nil {
			t.Fatalf("Open(readdir/a.txt): got error %v, want nil", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("ReadAll(): got error %v, want nil", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("ReadAll(): got %q, want %q", data, content)
		}
	})

	config.run(t, "ReadFS", "OpenSeek", func(t *testing.T) {
		f, err := filesystem.Open("readdir/a.txt")
		if err != nil {
			t.Fatalf("Open(readdir/a.txt): got error %v, want nil", err)
		}
		defer f.Close()

		seeker, ok := f.(io.Seeker)
		if !ok {
			t.Fatalf("Open(readdir/a.txt): handle %T does not implement io.Seeker", f)
		}

		buf := make([]byte, 5)
		if _, err := io.ReadFull(f, buf); err != nil {
			t.Fatalf("ReadFull(): got error %v, want nil", err)
		}
		pos, err := seeker.Seek(0, io.SeekStart)
		if err != nil || pos != 0 {
			t.Fatalf("Seek(0, SeekStart): got (%d, %v), want (0, nil)", pos, err)
		}
		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("ReadAll() after Seek: got error %v", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("ReadAll() after Seek: got %q, want %q", data, content)
		}

		pos, err = seeker.Seek(6, io.SeekStart)
		if err != nil || pos != 6 {
			t.Fatalf("Seek(6, SeekStart): got (%d, %v), want (6, nil)", pos, err)
		}
		if _, err := io.ReadFull(f, buf[:4]); err != nil || string(buf[:4]) != "line" {
			t.Errorf("Read after Seek(6): got (%q, %v), want (\"line\", nil)", buf[:4], err)
		}
	})

	config.run(t, "ReadFS", "OpenNotExist", func(t *testing.T) {
		_, err := filesystem.Open("nonexistent")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open(nonexistent): got error %v, want fs.ErrNotExist", err)
		}
	})

	config.run(t, "ReadFS", "StatFile", func(t *testing.T) {
		info, err := filesystem.Stat("readdir/a.txt")
		if err != nil {
			t.Fatalf("Stat(readdir/a.txt): got error %v, want nil", err)
		}
		if info.IsDir() {
			t.Errorf("Stat(readdir/a.txt): IsDir() = true, want false")
		}
		if info.Size() != int64(len(content)) {
			t.Errorf("Stat(readdir/a.txt): Size() = %d, want %d", info.Size(), len(content))
		}
		if info.Name() != "a.txt" {
			t.Errorf("Stat(readdir/a.txt): Name() = %q, want %q", info.Name(), "a.txt")
		}
	})

	config.run(t, "ReadFS", "StatDir", func(t *testing.T) {
		info, err := filesystem.Stat("readdir")
		if err != nil {
			t.Fatalf("Stat(readdir): got error %v, want nil", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(readdir): IsDir() = false, want true")
		}
	})

	config.run(t, "ReadFS", "StatNotExist", func(t *testing.T) {
		_, err := filesystem.Stat("nonexistent")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(nonexistent): got error %v, want fs.ErrNotExist", err)
		}
	})

	config.run(t, "ReadFS", "ReadDirSorted", func(t *testing.T) {
		entries, err := filesystem.ReadDir("readdir")
		if err != nil {
			t.Fatalf("ReadDir(readdir): got error %v, want nil", err)
		}
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
			t.Errorf("ReadDir(readdir): got %v, want [a.txt b.txt]", names)
		}
	})

	config.run(t, "ReadFS", "ReadFile", func(t *testing.T) {
		data, err := filesystem.ReadFile("readdir/b.txt")
		if err != nil {
			t.Fatalf("ReadFile(readdir/b.txt): got error %v, want nil", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("ReadFile(readdir/b.txt): got %q, want %q", data, content)
		}
	})

	config.run(t, "ReadFS", "Exists", func(t *testing.T) {
		for name, want := range map[string]bool{"readdir/a.txt": true, "readdir": true, "nonexistent": false} {
			got, err := filesystem.Exists(name)
			if err != nil {
				t.Errorf("Exists(%s): got error %v, want nil", name, err)
				continue
			}
			if got != want {
				t.Errorf("Exists(%s): got %v, want %v", name, got, want)
			}
		}
	})
}
