package fstest

import (
	"errors"
	"io/fs"
	"path"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// TestManageFS tests Remove, RemoveAll and Rename.
func TestManageFS(t *testing.T, filesystem core.FS) {
	TestManageFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestManageFSWithConfig tests management operations with behavior
// configuration.
func TestManageFSWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	config.run(t, "ManageFS", "RemoveFile", func(t *testing.T) {
		if err := filesystem.WriteFile("remove.txt", []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(remove.txt): setup failed: %v", err)
		}
		if err := filesystem.Remove("remove.txt"); err != nil {
			t.Fatalf("Remove(remove.txt): got error %v, want nil", err)
		}
		assertMissing(t, filesystem, "remove.txt")
	})

	config.run(t, "ManageFS", "RemoveNotExist", func(t *testing.T) {
		err := filesystem.Remove("never-existed.txt")
		if config.IdempotentDelete {
			if err != nil {
				t.Errorf("Remove(never-existed.txt): got error %v, want nil", err)
			}
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Remove(never-existed.txt): got error %v, want fs.ErrNotExist", err)
		}
	})

	config.run(t, "ManageFS", "RemoveAll", func(t *testing.T) {
		for _, name := range []string{"tree/a.txt", "tree/sub/b.txt", "tree/sub/deeper/c.txt"} {
			if err := filesystem.MkdirAll(path.Dir(name), 0o755); err != nil {
				t.Fatalf("MkdirAll(%s): setup failed: %v", path.Dir(name), err)
			}
			if err := filesystem.WriteFile(name, []byte(name), 0o644); err != nil {
				t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
			}
		}
		if err := filesystem.RemoveAll("tree"); err != nil {
			t.Fatalf("RemoveAll(tree): got error %v, want nil", err)
		}
		assertMissing(t, filesystem, "tree/sub/deeper/c.txt")
		assertMissing(t, filesystem, "tree")

		if err := filesystem.RemoveAll("tree"); err != nil {
			t.Errorf("RemoveAll(tree) again: got error %v, want nil", err)
		}
	})

	config.run(t, "ManageFS", "RenameFile", func(t *testing.T) {
		if err := filesystem.WriteFile("old.txt", []byte("payload"), 0o644); err != nil {
			t.Fatalf("WriteFile(old.txt): setup failed: %v", err)
		}
		if err := filesystem.Rename("old.txt", "new.txt"); err != nil {
			t.Fatalf("Rename(old.txt, new.txt): got error %v, want nil", err)
		}
		assertMissing(t, filesystem, "old.txt")
		assertContent(t, filesystem, "new.txt", "payload")
	})

	config.run(t, "ManageFS", "RenameDirectory", func(t *testing.T) {
		if err := filesystem.MkdirAll("from/inner", 0o755); err != nil {
			t.Fatalf("MkdirAll(from/inner): setup failed: %v", err)
		}
		if err := filesystem.WriteFile("from/inner/f.txt", []byte("moved"), 0o644); err != nil {
			t.Fatalf("WriteFile(from/inner/f.txt): setup failed: %v", err)
		}
		if err := filesystem.Rename("from", "to"); err != nil {
			t.Fatalf("Rename(from, to): got error %v, want nil", err)
		}
		assertMissing(t, filesystem, "from/inner/f.txt")
		assertContent(t, filesystem, "to/inner/f.txt", "moved")
	})

	config.run(t, "ManageFS", "RenameNotExist", func(t *testing.T) {
		err := filesystem.Rename("ghost.txt", "other.txt")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Rename(ghost.txt, other.txt): got error %v, want fs.ErrNotExist", err)
		}
	})
}

func assertMissing(t *testing.T, filesystem core.FS, name string) {
	t.Helper()
	exists, err := filesystem.Exists(name)
	if err != nil {
		t.Errorf("Exists(%s): got error %v, want nil", name, err)
		return
	}
	if exists {
		t.Errorf("Exists(%s): got true, want false", name)
	}
}
