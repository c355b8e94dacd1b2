package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// TestWriteFS tests Create, OpenFile, WriteFile, Mkdir and MkdirAll.
func TestWriteFS(t *testing.T, filesystem core.FS) {
	TestWriteFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestWriteFSWithConfig tests write operations with behavior configuration.
func TestWriteFSWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	config.run(t, "WriteFS", "Create", func(t *testing.T) {
		f, err := filesystem.Create("created.txt")
		if err != nil {
			t.Fatalf("Create(created.txt): got error %v, want nil", err)
		}
		if _, err := f.Write([]byte("hello ")); err != nil {
			t.Fatalf("Write(): got error %v, want nil", err)
		}
		if _, err := f.Write([]byte("world")); err != nil {
			t.Fatalf("Write(): got error %v, want nil", err)
		}
		if f.Name() != "created.txt" {
			t.Errorf("Name(): got %q, want %q", f.Name(), "created.txt")
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		assertContent(t, filesystem, "created.txt", "hello world")
	})

	config.run(t, "WriteFS", "CreateTruncates", func(t *testing.T) {
		if err := filesystem.WriteFile("trunc.txt", []byte("long original content"), 0o644); err != nil {
			t.Fatalf("WriteFile(trunc.txt): setup failed: %v", err)
		}
		f, err := filesystem.Create("trunc.txt")
		if err != nil {
			t.Fatalf("Create(trunc.txt): got error %v, want nil", err)
		}
		_, _ = f.Write([]byte("short"))
		if err := f.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		assertContent(t, filesystem, "trunc.txt", "short")
	})

	config.run(t, "WriteFS", "OpenFileCreate", func(t *testing.T) {
		f, err := filesystem.OpenFile("flags.txt", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			t.Fatalf("OpenFile(flags.txt, O_WRONLY|O_CREATE|O_TRUNC): got error %v, want nil", err)
		}
		_, _ = f.Write([]byte("via openfile"))
		if err := f.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		assertContent(t, filesystem, "flags.txt", "via openfile")
	})

	config.run(t, "WriteFS", "WriteFileOverwrite", func(t *testing.T) {
		for _, content := range []string{"one", "two two"} {
			if err := filesystem.WriteFile("overwrite.txt", []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile(overwrite.txt): got error %v, want nil", err)
			}
			assertContent(t, filesystem, "overwrite.txt", content)
		}
	})

	config.run(t, "WriteFS", "WriteFileInMissingDir", func(t *testing.T) {
		err := filesystem.WriteFile("missing-parent/file.txt", []byte("x"), 0o644)
		if config.ImplicitParentDirs {
			if err != nil {
				t.Errorf("WriteFile(missing-parent/file.txt): got error %v, want nil", err)
			}
			return
		}
		if err == nil {
			t.Errorf("WriteFile(missing-parent/file.txt): got nil, want error")
		}
	})

	config.run(t, "WriteFS", "Mkdir", func(t *testing.T) {
		if err := filesystem.Mkdir("single", 0o755); err != nil {
			t.Fatalf("Mkdir(single): got error %v, want nil", err)
		}
		if err := filesystem.WriteFile("single/f.txt", []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(single/f.txt): got error %v, want nil", err)
		}
		info, err := filesystem.Stat("single")
		if err != nil || !info.IsDir() {
			t.Errorf("Stat(single): got (%v, %v), want directory", info, err)
		}
		if config.VirtualDirectories {
			return
		}
		if err := filesystem.Mkdir("single", 0o755); !errors.Is(err, fs.ErrExist) {
			t.Errorf("Mkdir(single) again: got error %v, want fs.ErrExist", err)
		}
	})

	config.run(t, "WriteFS", "MkdirAll", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := filesystem.MkdirAll("deep/nested/dir", 0o755); err != nil {
				t.Fatalf("MkdirAll(deep/nested/dir) #%d: got error %v, want nil", i, err)
			}
		}
		if err := filesystem.WriteFile("deep/nested/dir/f.txt", []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(deep/nested/dir/f.txt): got error %v, want nil", err)
		}
		for _, dir := range []string{"deep", "deep/nested", "deep/nested/dir"} {
			info, err := filesystem.Stat(dir)
			if err != nil || !info.IsDir() {
				t.Errorf("Stat(%s): got (%v, %v), want directory", dir, info, err)
			}
		}
	})
}

func assertContent(t *testing.T, filesystem core.FS, name, want string) {
	t.Helper()
	data, err := filesystem.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile(%s): got error %v, want nil", name, err)
	}
	if !bytes.Equal(data, []byte(want)) {
		t.Errorf("ReadFile(%s): got %q, want %q", name, data, want)
	}
}
