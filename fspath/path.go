package fspath

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/billy"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/internal/logging"
)

// Path is an immutable location on a filesystem provider.
// The zero Path has no provider and fails every filesystem operation.
type Path struct {
	fs   core.FS
	name string
	log  *logging.Logger
}

// Option configures a Path.
type Option func(*Path)

// WithLogger logs mutations made through the path, and through every path
// derived from it, at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Path) {
		p.log = logging.FromSlog(logger)
	}
}

// New returns the path name on fsys. Backslashes are not treated as
// separators; name is cleaned with path.Clean.
func New(fsys core.FS, name string, opts ...Option) Path {
	p := Path{fs: fsys, name: clean(name)}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Local returns name on the local disk. Relative names are resolved
// against the working directory.
func Local(name string, opts ...Option) (Path, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return Path{}, errors.Wrapf(err, errors.CodeInvalidInput, "cannot resolve %q", name)
	}
	return New(billy.NewLocal(), filepath.ToSlash(abs), opts...), nil
}

func clean(name string) string {
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

// with returns a path on the same provider.
func (p Path) with(name string) Path {
	return Path{fs: p.fs, name: clean(name), log: p.log}
}

// FS returns the provider the path lives on.
func (p Path) FS() core.FS {
	return p.fs
}

// String returns the cleaned name.
func (p Path) String() string {
	return p.name
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	return p.fs == nil && p.name == ""
}

// IsAbs reports whether the name starts at the provider's root.
func (p Path) IsAbs() bool {
	return path.IsAbs(p.name)
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return path.Base(p.name)
}

// Ext returns the extension of the last element, including the dot.
// Dot files such as ".profile" have no extension.
func (p Path) Ext() string {
	base := p.Base()
	ext := path.Ext(base)
	if ext == base || base == ".." {
		return ""
	}
	return ext
}

// Stem returns the last element without its extension.
func (p Path) Stem() string {
	return strings.TrimSuffix(p.Base(), p.Ext())
}

// Dir returns the directory containing p.
func (p Path) Dir() Path {
	return p.with(path.Dir(p.name))
}

// Parent is an alias for Dir.
func (p Path) Parent() Path {
	return p.Dir()
}

// Join appends elements to the path.
func (p Path) Join(elem ...string) Path {
	return p.with(path.Join(append([]string{p.name}, elem...)...))
}

// WithExt replaces the extension of the last element. The leading dot is
// optional; an empty ext removes the extension.
func (p Path) WithExt(ext string) Path {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return p.with(strings.TrimSuffix(p.name, p.Ext()) + ext)
}

// TrimExt removes the extension of the last element.
func (p Path) TrimExt() Path {
	return p.WithExt("")
}

// Components splits the path into its elements. Absolute paths start with
// "/".
func (p Path) Components() []string {
	var out []string
	name := p.name
	if path.IsAbs(name) {
		out = append(out, "/")
		name = strings.TrimPrefix(name, "/")
	}
	if name == "" || name == "." {
		return out
	}
	return append(out, strings.Split(name, "/")...)
}

// Rel returns target's name relative to p.
func (p Path) Rel(target Path) (string, error) {
	rel, err := filepath.Rel(filepath.FromSlash(p.name), filepath.FromSlash(target.name))
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeInvalidInput, "%s is not relative to %s", target.name, p.name)
	}
	return filepath.ToSlash(rel), nil
}

// Equal reports whether p and other name the same location on the same
// provider.
func (p Path) Equal(other Path) bool {
	return p.fs == other.fs && p.name == other.name
}

func (p Path) check(op string) error {
	if p.fs == nil {
		return errors.WithContextMap(
			errors.New(errors.CodeInvalidInput, "path has no filesystem"),
			map[string]interface{}{"op": op, "path": p.name},
		)
	}
	return nil
}
