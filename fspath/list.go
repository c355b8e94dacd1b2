package fspath

import (
	"io/fs"
	"iter"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jmgilman/go/pathfs/errors"
)

// List returns the immediate children of p sorted by name. A path that is
// not a directory has no children and yields an empty list.
func (p Path) List() ([]Path, error) {
	info, err := p.Stat()
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := p.fs.ReadDir(p.name)
	if err != nil {
		return nil, errors.FromFS(err, "readdir", p.name)
	}
	out := make([]Path, len(entries))
	for i, e := range entries {
		out[i] = p.Join(e.Name())
	}
	return out, nil
}

// Subpaths returns every descendant of p relative to p, in lexical walk
// order. A path that is not a directory yields an empty list.
func (p Path) Subpaths() ([]string, error) {
	var out []string
	err := p.Walk(func(child Path, d fs.DirEntry) error {
		if child.name == p.name {
			return nil
		}
		rel, err := p.Rel(child)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

// Walk calls fn for p and every path below it in lexical order. fn may
// return fs.SkipDir or fs.SkipAll. Errors reading a directory end the walk.
func (p Path) Walk(fn func(Path, fs.DirEntry) error) error {
	if err := p.check("walk"); err != nil {
		return err
	}
	return p.fs.Walk(p.name, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.FromFS(err, "walk", name)
		}
		return fn(p.with(name), d)
	})
}

// Entries returns an iterator over every descendant of p, excluding p.
// The walk is lazy and restarts each time the iterator is ranged over.
func (p Path) Entries() iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		err := p.Walk(func(child Path, _ fs.DirEntry) error {
			if child.name == p.name {
				return nil
			}
			if !yield(child, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Path{}, err)
		}
	}
}

// Glob returns the paths below p matching pattern. Patterns use
// doublestar syntax, so "**/*.log" matches at any depth.
func (p Path) Glob(pattern string) ([]Path, error) {
	if err := p.check("glob"); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.WithContextMap(
			errors.Newf(errors.CodeInvalidInput, "invalid pattern %q", pattern),
			map[string]interface{}{"op": "glob", "path": p.name},
		)
	}

	var sub fs.FS = p.fs
	if p.name != "." {
		var err error
		if sub, err = p.fs.Chroot(p.name); err != nil {
			return nil, errors.FromFS(err, "glob", p.name)
		}
	}
	matches, err := doublestar.Glob(sub, pattern)
	if err != nil {
		return nil, errors.FromFS(err, "glob", p.name)
	}

	out := make([]Path, len(matches))
	for i, m := range matches {
		out[i] = p.with(path.Join(p.name, m))
	}
	return out, nil
}
