package fstest

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// TestChrootFS tests scoped views and their boundary.
func TestChrootFS(t *testing.T, filesystem core.FS) {
	TestChrootFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestChrootFSWithConfig tests scoped views with behavior configuration.
func TestChrootFSWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	if err := filesystem.MkdirAll("jail/inner", 0o755); err != nil {
		t.Fatalf("MkdirAll(jail/inner): setup failed: %v", err)
	}
	if err := filesystem.WriteFile("jail/inside.txt", []byte("inside"), 0o644); err != nil {
		t.Fatalf("WriteFile(jail/inside.txt): setup failed: %v", err)
	}
	if err := filesystem.WriteFile("jail/inner/deep.txt", []byte("deep"), 0o644); err != nil {
		t.Fatalf("WriteFile(jail/inner/deep.txt): setup failed: %v", err)
	}
	if err := filesystem.WriteFile("outside.txt", []byte("secret"), 0o644); err != nil {
		t.Fatalf("WriteFile(outside.txt): setup failed: %v", err)
	}

	config.run(t, "ChrootFS", "ScopedReadWrite", func(t *testing.T) {
		jail, err := filesystem.Chroot("jail")
		if err != nil {
			t.Fatalf("Chroot(jail): got error %v, want nil", err)
		}
		assertContent(t, jail, "inside.txt", "inside")

		if err := jail.WriteFile("written.txt", []byte("from jail"), 0o644); err != nil {
			t.Fatalf("jail.WriteFile(written.txt): got error %v, want nil", err)
		}
		assertContent(t, filesystem, "jail/written.txt", "from jail")

		if _, err := jail.ReadFile("outside.txt"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("jail.ReadFile(outside.txt): got error %v, want fs.ErrNotExist", err)
		}
	})

	config.run(t, "ChrootFS", "NoTraversal", func(t *testing.T) {
		jail, err := filesystem.Chroot("jail")
		if err != nil {
			t.Fatalf("Chroot(jail): got error %v, want nil", err)
		}
		for _, name := range []string{"../outside.txt", "inner/../../outside.txt", "../../../outside.txt"} {
			if data, err := jail.ReadFile(name); err == nil {
				t.Errorf("jail.ReadFile(%s): got %q, want error", name, data)
			}
		}
	})

	config.run(t, "ChrootFS", "Nested", func(t *testing.T) {
		jail, err := filesystem.Chroot("jail")
		if err != nil {
			t.Fatalf("Chroot(jail): got error %v, want nil", err)
		}
		inner, err := jail.Chroot("inner")
		if err != nil {
			t.Fatalf("jail.Chroot(inner): got error %v, want nil", err)
		}
		assertContent(t, inner, "deep.txt", "deep")
		if inner.Type() != filesystem.Type() {
			t.Errorf("Type(): got %v, want %v", inner.Type(), filesystem.Type())
		}
	})

	config.run(t, "ChrootFS", "FileTarget", func(t *testing.T) {
		if _, err := filesystem.Chroot("outside.txt"); err == nil {
			t.Errorf("Chroot(outside.txt): got nil, want error")
		}
	})
}
