package fstest

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// TestWalkFS tests Walk ordering, skipping and error reporting.
func TestWalkFS(t *testing.T, filesystem core.FS) {
	TestWalkFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestWalkFSWithConfig tests Walk with behavior configuration.
func TestWalkFSWithConfig(t *testing.T, filesystem core.FS, config FSTestConfig) {
	files := []string{"walk/a.txt", "walk/b/c.txt", "walk/b/d.txt", "walk/e/f.txt"}
	for _, name := range files {
		if err := filesystem.MkdirAll(path.Dir(name), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): setup failed: %v", path.Dir(name), err)
		}
		if err := filesystem.WriteFile(name, []byte(name), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
		}
	}

	config.run(t, "WalkFS", "LexicalOrder", func(t *testing.T) {
		var visited []string
		err := filesystem.Walk("walk", func(name string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(walk): got error %v, want nil", err)
		}

		want := []string{"walk", "walk/a.txt", "walk/b", "walk/b/c.txt", "walk/b/d.txt", "walk/e", "walk/e/f.txt"}
		if !slices.Equal(visited, want) {
			t.Errorf("Walk(walk): visited %v, want %v", visited, want)
		}
	})

	config.run(t, "WalkFS", "SkipDir", func(t *testing.T) {
		var visited []string
		err := filesystem.Walk("walk", func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && name == "walk/b" {
				return fs.SkipDir
			}
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(walk): got error %v, want nil", err)
		}
		if slices.Contains(visited, "walk/b/c.txt") {
			t.Errorf("Walk(walk) with SkipDir: visited %v, want walk/b skipped", visited)
		}
		if !slices.Contains(visited, "walk/e/f.txt") {
			t.Errorf("Walk(walk) with SkipDir: visited %v, want walk/e/f.txt", visited)
		}
	})

	config.run(t, "WalkFS", "SkipAll", func(t *testing.T) {
		count := 0
		err := filesystem.Walk("walk", func(string, fs.DirEntry, error) error {
			count++
			if count == 2 {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Walk(walk) with SkipAll: got error %v, want nil", err)
		}
		if count != 2 {
			t.Errorf("Walk(walk) with SkipAll: visited %d paths, want 2", count)
		}
	})

	config.run(t, "WalkFS", "MissingRoot", func(t *testing.T) {
		err := filesystem.Walk("no-such-root", func(_ string, _ fs.DirEntry, err error) error {
			return err
		})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Walk(no-such-root): got error %v, want fs.ErrNotExist", err)
		}
	})

	config.run(t, "WalkFS", "StdlibWalkDir", func(t *testing.T) {
		var visited []string
		err := fs.WalkDir(filesystem, "walk/b", func(name string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Fatalf("fs.WalkDir(walk/b): got error %v, want nil", err)
		}
		want := []string{"walk/b", "walk/b/c.txt", "walk/b/d.txt"}
		if !slices.Equal(visited, want) {
			t.Errorf("fs.WalkDir(walk/b): visited %v, want %v", visited, want)
		}
	})
}
