package fspath_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/billy"
	"github.com/jmgilman/go/pathfs/fspath"
	"github.com/jmgilman/go/pathfs/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree builds root/{a.txt, b/c.txt, d.log, e/} on a fresh memory filesystem.
func tree(t *testing.T) fspath.Path {
	t.Helper()
	root := fspath.New(billy.NewMemory(), "root")
	require.NoError(t, root.MkdirAll())
	require.NoError(t, root.Join("a.txt").WriteFile([]byte("alpha\n")))
	require.NoError(t, root.Join("b").MkdirAll())
	require.NoError(t, root.Join("b", "c.txt").WriteFile([]byte("one\ntwo\n")))
	require.NoError(t, root.Join("d.log").WriteFile([]byte("log")))
	require.NoError(t, root.Join("e").MkdirAll())
	return root
}

func TestPath_Predicates(t *testing.T) {
	root := tree(t)

	tests := []struct {
		name                  string
		path                  fspath.Path
		exists, isFile, isDir bool
	}{
		{name: "file", path: root.Join("a.txt"), exists: true, isFile: true},
		{name: "dir", path: root.Join("b"), exists: true, isDir: true},
		{name: "missing", path: root.Join("nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := tt.path.Exists()
			require.NoError(t, err)
			assert.Equal(t, tt.exists, exists)

			isFile, err := tt.path.IsFile()
			require.NoError(t, err)
			assert.Equal(t, tt.isFile, isFile)

			isDir, err := tt.path.IsDir()
			require.NoError(t, err)
			assert.Equal(t, tt.isDir, isDir)
		})
	}
}

func TestPath_Stat(t *testing.T) {
	root := tree(t)

	info, err := root.Join("b", "c.txt").Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())

	_, err = root.Join("missing").Stat()
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestPath_IsEmpty(t *testing.T) {
	root := tree(t)
	require.NoError(t, root.Join("zero").WriteFile(nil))

	for name, want := range map[string]bool{"e": true, "b": false, "zero": true, "a.txt": false} {
		got, err := root.Join(name).IsEmpty()
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestPath_CreateFile(t *testing.T) {
	root := tree(t)
	p := root.Join("new", "nested", "file.txt")

	created, err := p.CreateFile([]byte("first"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = p.CreateFile([]byte("second"))
	require.NoError(t, err)
	assert.False(t, created)

	data, err := p.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestPath_MkdirAll(t *testing.T) {
	root := tree(t)
	p := root.Join("x", "y", "z")

	require.NoError(t, p.MkdirAll())
	require.NoError(t, p.MkdirAll())

	isDir, err := p.IsDir()
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestPath_ReadWrite(t *testing.T) {
	root := tree(t)
	p := root.Join("a.txt")

	require.NoError(t, p.WriteFile([]byte("replaced")))
	data, err := p.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	_, err = root.Join("missing.txt").ReadFile()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestPath_Remove(t *testing.T) {
	root := tree(t)

	require.NoError(t, root.Join("a.txt").Remove())
	exists, err := root.Join("a.txt").Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, root.Join("e").Remove())

	err = root.Join("b").Remove()
	require.Error(t, err, "non-empty directory")

	err = root.Join("missing").Remove()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	require.NoError(t, root.RemoveAll())
	require.NoError(t, root.RemoveAll())
	exists, err = root.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPath_Rename(t *testing.T) {
	root := tree(t)

	renamed, err := root.Join("a.txt").Rename("z.txt")
	require.NoError(t, err)
	assert.Equal(t, "root/z.txt", renamed.String())

	data, err := renamed.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))

	exists, err := root.Join("a.txt").Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	for _, bad := range []string{"", ".", "..", "a/b"} {
		_, err := renamed.Rename(bad)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), "name %q", bad)
	}

	_, err = root.Join("missing").Rename("other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestPath_MoveTo(t *testing.T) {
	ctx := context.Background()

	t.Run("same provider", func(t *testing.T) {
		root := tree(t)
		dst := root.Join("moved", "c.txt")
		require.NoError(t, root.Join("b", "c.txt").MoveTo(ctx, dst))

		data, err := dst.ReadFile()
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(data))

		exists, err := root.Join("b", "c.txt").Exists()
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("across providers", func(t *testing.T) {
		root := tree(t)
		dst := fspath.New(billy.NewMemory(), "elsewhere")
		require.NoError(t, root.Join("b").MoveTo(ctx, dst))

		got, err := dst.Join("c.txt").ReadLines()
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, got)

		exists, err := root.Join("b").Exists()
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPath_CopyTo(t *testing.T) {
	ctx := context.Background()
	root := tree(t)
	other := fspath.New(billy.NewMemory(), "copy")

	require.NoError(t, root.Join("a.txt").CopyTo(ctx, other.Join("single.txt")))
	data, err := other.Join("single.txt").ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))

	require.NoError(t, root.CopyTo(ctx, other.Join("tree")))
	subs, err := other.Join("tree").Subpaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b", "b/c.txt", "d.log", "e"}, subs)

	// The source is untouched.
	exists, err := root.Join("a.txt").Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	err = root.Join("missing").CopyTo(ctx, other.Join("x"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	err = root.CopyTo(ctx, root.Join("b", "nested"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	exists, err = root.Join("b", "nested").Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPath_List(t *testing.T) {
	root := tree(t)

	children, err := root.List()
	require.NoError(t, err)
	var names []string
	for _, c := range children {
		names = append(names, c.Base())
	}
	assert.Equal(t, []string{"a.txt", "b", "d.log", "e"}, names)
	assert.Equal(t, "root/b", children[1].String())

	children, err = root.Join("a.txt").List()
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = root.Join("missing").List()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestPath_Subpaths(t *testing.T) {
	root := tree(t)

	subs, err := root.Subpaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b", "b/c.txt", "d.log", "e"}, subs)

	subs, err = root.Join("a.txt").Subpaths()
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestPath_Walk(t *testing.T) {
	root := tree(t)

	var visited []string
	err := root.Walk(func(p fspath.Path, d fs.DirEntry) error {
		visited = append(visited, p.String())
		if p.Base() == "b" {
			return fs.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "root/a.txt", "root/b", "root/d.log", "root/e"}, visited)

	err = root.Join("missing").Walk(func(fspath.Path, fs.DirEntry) error { return nil })
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestPath_Entries(t *testing.T) {
	root := tree(t)

	var all []string
	for p, err := range root.Entries() {
		require.NoError(t, err)
		all = append(all, p.String())
	}
	assert.Equal(t, []string{"root/a.txt", "root/b", "root/b/c.txt", "root/d.log", "root/e"}, all)

	// Ranging again starts over; breaking stops the walk.
	var first []string
	for p, err := range root.Entries() {
		require.NoError(t, err)
		first = append(first, p.String())
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, all[:2], first)

	for _, err := range root.Join("missing").Entries() {
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	}
}

func TestPath_Glob(t *testing.T) {
	root := tree(t)

	matches, err := root.Glob("**/*.txt")
	require.NoError(t, err)
	var names []string
	for _, m := range matches {
		names = append(names, m.String())
	}
	assert.ElementsMatch(t, []string{"root/a.txt", "root/b/c.txt"}, names)

	matches, err = root.Glob("*.log")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "root/d.log", matches[0].String())

	_, err = root.Glob("[unclosed")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestPath_Lines(t *testing.T) {
	root := tree(t)
	p := root.Join("b", "c.txt")

	r, err := p.Lines(lines.WithChunkSize(1))
	require.NoError(t, err)
	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", first)
	require.NoError(t, r.Close())

	var got []string
	require.NoError(t, p.EachLine(func(line string) error {
		got = append(got, line)
		return nil
	}))
	assert.Equal(t, []string{"one", "two"}, got)

	got, err = root.Join("d.log").ReadLines(lines.WithDelimiterString("o"))
	require.NoError(t, err)
	assert.Equal(t, []string{"l", "g"}, got)

	_, err = root.Join("b").Lines()
	assert.Equal(t, errors.CodeOpenFailed, errors.GetCode(err))
}

func TestPath_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := fspath.New(billy.NewMemory(), "logged", fspath.WithLogger(logger))
	require.NoError(t, p.Join("f.txt").WriteFile([]byte("x")))
	assert.Contains(t, buf.String(), "wrote file")
	assert.Contains(t, buf.String(), "path=logged/f.txt")

	// Without a logger nothing is written anywhere.
	q := fspath.New(billy.NewMemory(), "quiet")
	require.NoError(t, q.WriteFile([]byte("x")))
}
