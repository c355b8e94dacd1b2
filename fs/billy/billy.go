package billy

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/pathfs/fs/core"
)

// LocalFS wraps billy's osfs for local filesystem access.
type LocalFS struct {
	adapter
}

// MemoryFS wraps billy's memfs for in-memory filesystem access.
type MemoryFS struct {
	adapter
}

// Option configures filesystem creation.
type Option func(*config)

type config struct {
	root string
}

// WithRoot roots a LocalFS at dir instead of "/". It has no effect on
// MemoryFS.
func WithRoot(dir string) Option {
	return func(c *config) {
		c.root = dir
	}
}

func newConfig(opts []Option) *config {
	c := &config{root: "/"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLocal creates a go-billy-backed local filesystem rooted at "/" unless
// WithRoot says otherwise.
func NewLocal(opts ...Option) *LocalFS {
	cfg := newConfig(opts)
	return &LocalFS{adapter{bfs: osfs.New(cfg.root)}}
}

// NewMemory creates an empty go-billy-backed in-memory filesystem.
func NewMemory(_ ...Option) *MemoryFS {
	return &MemoryFS{adapter{bfs: memfs.New(), mu: &sync.Mutex{}}}
}

// Chroot returns a filesystem scoped to the given directory.
func (lfs *LocalFS) Chroot(dir string) (core.FS, error) {
	bfs, err := lfs.chroot(dir)
	if err != nil {
		return nil, err
	}
	return &LocalFS{adapter{bfs: bfs}}, nil
}

// Type returns FSTypeLocal.
func (lfs *LocalFS) Type() core.FSType {
	return core.FSTypeLocal
}

// Chroot returns a filesystem scoped to the given directory.
func (mfs *MemoryFS) Chroot(dir string) (core.FS, error) {
	bfs, err := mfs.chroot(dir)
	if err != nil {
		return nil, err
	}
	return &MemoryFS{adapter{bfs: bfs, mu: mfs.mu}}, nil
}

// Type returns FSTypeMemory.
func (mfs *MemoryFS) Type() core.FSType {
	return core.FSTypeMemory
}

// adapter implements everything in core.FS except Chroot and Type on top of
// a billy.Filesystem.
type adapter struct {
	bfs billy.Filesystem
	// mu serializes filesystem calls for backends whose state is not safe
	// for concurrent use (memfs). It is nil for osfs and shared by chroots.
	mu *sync.Mutex
}

func (a *adapter) lock() func() {
	if a.mu == nil {
		return func() {}
	}
	a.mu.Lock()
	return a.mu.Unlock
}

// Unwrap returns the underlying billy.Filesystem.
func (a *adapter) Unwrap() billy.Filesystem {
	return a.bfs
}

// normalize converts paths to use forward slashes consistently.
func normalize(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}

// dirEntry wraps fs.FileInfo to implement fs.DirEntry.
type dirEntry struct {
	info fs.FileInfo
}

func (d *dirEntry) Name() string               { return d.info.Name() }
func (d *dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d *dirEntry) Type() fs.FileMode          { return d.info.Mode().Type() }
func (d *dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

func (a *adapter) wrap(f billy.File, name string) *File {
	return &File{file: f, stat: a.Stat, name: name}
}

// Open opens the named file for reading.
func (a *adapter) Open(name string) (fs.File, error) {
	defer a.lock()()
	name = normalize(name)
	f, err := a.bfs.Open(name)
	if err != nil {
		return nil, err
	}
	return a.wrap(f, name), nil
}

// Stat returns file metadata for the named file.
func (a *adapter) Stat(name string) (fs.FileInfo, error) {
	defer a.lock()()
	return a.bfs.Stat(normalize(name))
}

// ReadDir returns the entries of the named directory sorted by filename.
func (a *adapter) ReadDir(name string) ([]fs.DirEntry, error) {
	defer a.lock()()
	infos, err := a.bfs.ReadDir(normalize(name))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = &dirEntry{info: info}
	}
	return entries, nil
}

// ReadFile reads the named file and returns its contents.
func (a *adapter) ReadFile(name string) ([]byte, error) {
	defer a.lock()()
	f, err := a.bfs.Open(normalize(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// Exists reports whether the named file or directory exists.
func (a *adapter) Exists(name string) (bool, error) {
	defer a.lock()()
	_, err := a.bfs.Stat(normalize(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create creates or truncates the named file for writing.
func (a *adapter) Create(name string) (core.File, error) {
	defer a.lock()()
	name = normalize(name)
	f, err := a.bfs.Create(name)
	if err != nil {
		return nil, err
	}
	return a.wrap(f, name), nil
}

// OpenFile opens a file with the specified flags and permissions.
func (a *adapter) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	defer a.lock()()
	name = normalize(name)
	f, err := a.bfs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return a.wrap(f, name), nil
}

// WriteFile writes data to the named file, creating it if necessary.
func (a *adapter) WriteFile(name string, data []byte, perm fs.FileMode) error {
	defer a.lock()()
	return util.WriteFile(a.bfs, normalize(name), data, perm)
}

// Mkdir creates a single directory. Unlike MkdirAll it fails if the
// directory exists or its parent does not.
func (a *adapter) Mkdir(name string, perm fs.FileMode) error {
	defer a.lock()()
	name = normalize(name)
	if _, err := a.bfs.Stat(name); err == nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	parent := path.Dir(name)
	if parent != "." && parent != "/" {
		if _, err := a.bfs.Stat(parent); err != nil {
			return err
		}
	}
	return a.bfs.MkdirAll(name, perm)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (a *adapter) MkdirAll(name string, perm fs.FileMode) error {
	defer a.lock()()
	return a.bfs.MkdirAll(normalize(name), perm)
}

// Remove removes the named file or empty directory.
func (a *adapter) Remove(name string) error {
	defer a.lock()()
	return a.bfs.Remove(normalize(name))
}

// RemoveAll removes path and any children it contains.
func (a *adapter) RemoveAll(name string) error {
	defer a.lock()()
	return util.RemoveAll(a.bfs, normalize(name))
}

// Rename renames (moves) oldpath to newpath.
func (a *adapter) Rename(oldpath, newpath string) error {
	defer a.lock()()
	return a.bfs.Rename(normalize(oldpath), normalize(newpath))
}

// Walk walks the file tree rooted at root in lexical order.
func (a *adapter) Walk(root string, walkFn fs.WalkDirFunc) error {
	root = normalize(root)
	info, err := a.Stat(root)
	if err != nil {
		err = walkFn(root, nil, err)
	} else {
		err = a.walk(root, &dirEntry{info: info}, walkFn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (a *adapter) walk(name string, d fs.DirEntry, walkFn fs.WalkDirFunc) error {
	if err := walkFn(name, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	entries, err := a.readDir(name)
	if err != nil {
		if err = walkFn(name, d, err); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		child := path.Join(name, entry.Name())
		if err := a.walk(child, &dirEntry{info: entry}, walkFn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// readDir locks around ReadDir so walk callbacks run unlocked.
func (a *adapter) readDir(name string) ([]fs.FileInfo, error) {
	defer a.lock()()
	return a.bfs.ReadDir(name)
}

func (a *adapter) chroot(dir string) (billy.Filesystem, error) {
	defer a.lock()()
	dir = normalize(dir)
	info, err := a.bfs.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "chroot", Path: dir, Err: fs.ErrInvalid}
	}
	return a.bfs.Chroot(dir)
}

// Compile-time interface checks.
var (
	_ core.FS = (*LocalFS)(nil)
	_ core.FS = (*MemoryFS)(nil)
)
