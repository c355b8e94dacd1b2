package known

import (
	"os"
	"runtime"
	"strings"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fspath"
)

// Resolver evaluates a Table for one platform.
type Resolver struct {
	goos      string
	table     Table
	overrides map[Dir]string
	env       func(string) (string, bool)
	home      func() (string, error)
	tempDir   func() string
	wd        func() (string, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGOOS selects the platform layout. Defaults to runtime.GOOS.
func WithGOOS(goos string) Option {
	return func(r *Resolver) {
		r.goos = goos
	}
}

// WithTable replaces DefaultTable.
func WithTable(t Table) Option {
	return func(r *Resolver) {
		r.table = t
	}
}

// WithOverrides pins directories to fixed paths ahead of the table.
func WithOverrides(overrides map[Dir]string) Option {
	return func(r *Resolver) {
		for d, p := range overrides {
			r.overrides[d] = p
		}
	}
}

// WithEnv replaces os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.env = lookup
	}
}

// WithHome replaces os.UserHomeDir.
func WithHome(home func() (string, error)) Option {
	return func(r *Resolver) {
		r.home = home
	}
}

// WithTempDir replaces os.TempDir.
func WithTempDir(tempDir func() string) Option {
	return func(r *Resolver) {
		r.tempDir = tempDir
	}
}

// WithWorkingDir replaces os.Getwd.
func WithWorkingDir(wd func() (string, error)) Option {
	return func(r *Resolver) {
		r.wd = wd
	}
}

// NewResolver returns a Resolver for the running platform unless options
// say otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		goos:      runtime.GOOS,
		table:     DefaultTable(),
		overrides: make(map[Dir]string),
		env:       os.LookupEnv,
		home:      os.UserHomeDir,
		tempDir:   os.TempDir,
		wd:        os.Getwd,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GOOS returns the platform whose layout the resolver uses.
func (r *Resolver) GOOS() string {
	return r.goos
}

// Resolve returns the location of d. The first source that yields a value
// wins. A directory the platform does not define, or whose sources all
// come up empty, fails with CodeNotFound.
func (r *Resolver) Resolve(d Dir) (string, error) {
	if p, ok := r.overrides[d]; ok && p != "" {
		return p, nil
	}

	entries, ok := r.table[r.goos]
	if !ok {
		entries = r.table[Fallback]
	}
	tmpl, ok := entries[d]
	if !ok || len(tmpl) == 0 {
		return "", errors.WithContextMap(
			errors.Newf(errors.CodeNotFound, "%s directory is not defined on %s", d, r.goos),
			map[string]interface{}{"dir": d.String(), "goos": r.goos},
		)
	}

	var lastErr error
	for _, src := range tmpl {
		p, err := r.eval(src)
		if err != nil {
			lastErr = err
			continue
		}
		if p != "" {
			return p, nil
		}
	}

	if lastErr != nil {
		return "", errors.Wrapf(lastErr, errors.CodeNotFound, "cannot resolve %s directory", d)
	}
	return "", errors.Newf(errors.CodeNotFound, "cannot resolve %s directory", d)
}

// Path resolves d to a Path on the local disk.
func (r *Resolver) Path(d Dir, opts ...fspath.Option) (fspath.Path, error) {
	p, err := r.Resolve(d)
	if err != nil {
		return fspath.Path{}, err
	}
	return fspath.Local(p, opts...)
}

// All resolves every directory the platform defines. Directories that fail
// to resolve are left out.
func (r *Resolver) All() map[Dir]string {
	out := make(map[Dir]string)
	for _, d := range Dirs() {
		if p, err := r.Resolve(d); err == nil {
			out[d] = p
		}
	}
	return out
}

func (r *Resolver) eval(src Source) (string, error) {
	var base string
	switch src.Kind {
	case SourceEnv:
		v, ok := r.env(src.Name)
		if !ok || v == "" {
			return "", nil
		}
		base = v
	case SourceHome:
		h, err := r.home()
		if err != nil {
			return "", err
		}
		base = h
	case SourceTemp:
		base = r.tempDir()
	case SourceWorkingDir:
		w, err := r.wd()
		if err != nil {
			return "", err
		}
		base = w
	case SourceAbs:
		base = src.Name
	default:
		return "", errors.Newf(errors.CodeInvalidInput, "unknown source kind %d", src.Kind)
	}
	if base == "" {
		return "", nil
	}
	return r.join(base, src.Elem...), nil
}

// join joins with the separator of the resolver's platform, which may not
// be the host's. A ".." element drops the previous one.
func (r *Resolver) join(base string, elem ...string) string {
	sep := "/"
	if r.goos == "windows" {
		sep = `\`
	}

	out := strings.TrimRight(base, `/\`)
	if out == "" {
		out = base[:1]
	}
	for _, e := range elem {
		if e == ".." {
			if i := strings.LastIndexAny(out, `/\`); i > 0 {
				out = out[:i]
			}
			continue
		}
		if strings.HasSuffix(out, sep) {
			out += e
		} else {
			out += sep + e
		}
	}
	return out
}
