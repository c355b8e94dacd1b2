package fspath_test

import (
	"testing"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/billy"
	"github.com/jmgilman/go/pathfs/fspath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_StringOps(t *testing.T) {
	fsys := billy.NewMemory()

	tests := []struct {
		name  string
		in    string
		clean string
		base  string
		ext   string
		stem  string
		dir   string
	}{
		{name: "relative file", in: "a/b/c.txt", clean: "a/b/c.txt", base: "c.txt", ext: ".txt", stem: "c", dir: "a/b"},
		{name: "absolute", in: "/var/log/app.log", clean: "/var/log/app.log", base: "app.log", ext: ".log", stem: "app", dir: "/var/log"},
		{name: "unclean", in: "a//b/../c/", clean: "a/c", base: "c", ext: "", stem: "c", dir: "a"},
		{name: "double ext", in: "x.tar.gz", clean: "x.tar.gz", base: "x.tar.gz", ext: ".gz", stem: "x.tar", dir: "."},
		{name: "empty", in: "", clean: ".", base: ".", ext: "", stem: ".", dir: "."},
		{name: "dot file", in: "home/.profile", clean: "home/.profile", base: ".profile", ext: "", stem: ".profile", dir: "home"},
		{name: "root", in: "/", clean: "/", base: "/", ext: "", stem: "/", dir: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fspath.New(fsys, tt.in)
			assert.Equal(t, tt.clean, p.String())
			assert.Equal(t, tt.base, p.Base())
			assert.Equal(t, tt.ext, p.Ext())
			assert.Equal(t, tt.stem, p.Stem())
			assert.Equal(t, tt.dir, p.Dir().String())
			assert.Equal(t, p.Dir(), p.Parent())
			assert.Same(t, fsys, p.FS())
		})
	}
}

func TestPath_Join(t *testing.T) {
	p := fspath.New(billy.NewMemory(), "/data")
	assert.Equal(t, "/data/a/b.txt", p.Join("a", "b.txt").String())
	assert.Equal(t, "/a", p.Join("..", "a").String())
	assert.Equal(t, "/data", p.Join().String())
	assert.True(t, p.IsAbs())
	assert.False(t, p.Join("x").Equal(p))
	assert.True(t, p.Join("x").Dir().Equal(p))
}

func TestPath_Ext(t *testing.T) {
	p := fspath.New(billy.NewMemory(), "dir/report.txt")
	assert.Equal(t, "dir/report.md", p.WithExt("md").String())
	assert.Equal(t, "dir/report.md", p.WithExt(".md").String())
	assert.Equal(t, "dir/report", p.TrimExt().String())
	assert.Equal(t, "dir/noext.go", fspath.New(nil, "dir/noext").WithExt("go").String())
}

func TestPath_Components(t *testing.T) {
	assert.Equal(t, []string{"/", "usr", "local", "bin"}, fspath.New(nil, "/usr/local/bin").Components())
	assert.Equal(t, []string{"a", "b"}, fspath.New(nil, "a/b").Components())
	assert.Equal(t, []string{"/"}, fspath.New(nil, "/").Components())
	assert.Empty(t, fspath.New(nil, ".").Components())
}

func TestPath_Rel(t *testing.T) {
	base := fspath.New(nil, "/srv/data")

	rel, err := base.Rel(base.Join("logs", "a.log"))
	require.NoError(t, err)
	assert.Equal(t, "logs/a.log", rel)

	rel, err = base.Rel(fspath.New(nil, "/srv/other"))
	require.NoError(t, err)
	assert.Equal(t, "../other", rel)

	_, err = base.Rel(fspath.New(nil, "relative"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestPath_Zero(t *testing.T) {
	var p fspath.Path
	assert.True(t, p.IsZero())

	_, err := p.Exists()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(p.WriteFile(nil)))
	_, err = p.Lines()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLocal(t *testing.T) {
	dir := t.TempDir()

	p, err := fspath.Local(dir)
	require.NoError(t, err)
	assert.True(t, p.IsAbs())

	f := p.Join("hello.txt")
	require.NoError(t, f.WriteFile([]byte("hi\nthere\n")))

	got, err := f.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "there"}, got)
}
