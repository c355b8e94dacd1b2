package fspath

import (
	"context"
	"io/fs"
	"strings"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Stat returns the file info for p.
func (p Path) Stat() (fs.FileInfo, error) {
	if err := p.check("stat"); err != nil {
		return nil, err
	}
	info, err := p.fs.Stat(p.name)
	if err != nil {
		return nil, errors.FromFS(err, "stat", p.name)
	}
	return info, nil
}

// Exists reports whether p exists. A missing path is not an error.
func (p Path) Exists() (bool, error) {
	if err := p.check("exists"); err != nil {
		return false, err
	}
	ok, err := p.fs.Exists(p.name)
	if err != nil {
		return false, errors.FromFS(err, "exists", p.name)
	}
	return ok, nil
}

// IsFile reports whether p exists and is not a directory.
func (p Path) IsFile() (bool, error) {
	info, err := p.statIfExists("isfile")
	if info == nil || err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// IsDir reports whether p exists and is a directory.
func (p Path) IsDir() (bool, error) {
	info, err := p.statIfExists("isdir")
	if info == nil || err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// statIfExists returns nil, nil for a missing path.
func (p Path) statIfExists(op string) (fs.FileInfo, error) {
	if err := p.check(op); err != nil {
		return nil, err
	}
	info, err := p.fs.Stat(p.name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.FromFS(err, op, p.name)
	}
	return info, nil
}

// IsEmpty reports whether p is a directory without entries, or an empty
// file.
func (p Path) IsEmpty() (bool, error) {
	info, err := p.Stat()
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return info.Size() == 0, nil
	}
	entries, err := p.fs.ReadDir(p.name)
	if err != nil {
		return false, errors.FromFS(err, "readdir", p.name)
	}
	return len(entries) == 0, nil
}

// MkdirAll creates p and any missing parents. It does nothing if p is
// already a directory.
func (p Path) MkdirAll() error {
	if err := p.check("mkdir"); err != nil {
		return err
	}
	if err := p.fs.MkdirAll(p.name, dirPerm); err != nil {
		return errors.FromFS(err, "mkdir", p.name)
	}
	p.log.Debug("created directory", "path", p.name)
	return nil
}

// CreateFile writes data to p if p does not exist, creating parent
// directories as needed. It reports whether the file was created; an
// existing path is left untouched.
func (p Path) CreateFile(data []byte) (bool, error) {
	exists, err := p.Exists()
	if err != nil || exists {
		return false, err
	}
	if err := p.Dir().MkdirAll(); err != nil {
		return false, err
	}
	if err := p.WriteFile(data); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile replaces the contents of p with data.
func (p Path) WriteFile(data []byte) error {
	if err := p.check("write"); err != nil {
		return err
	}
	if err := p.fs.WriteFile(p.name, data, filePerm); err != nil {
		return errors.FromFS(err, "write", p.name)
	}
	p.log.Debug("wrote file", "path", p.name, "bytes", len(data))
	return nil
}

// ReadFile returns the contents of p.
func (p Path) ReadFile() ([]byte, error) {
	if err := p.check("read"); err != nil {
		return nil, err
	}
	data, err := p.fs.ReadFile(p.name)
	if err != nil {
		return nil, errors.FromFS(err, "read", p.name)
	}
	return data, nil
}

// Remove deletes a file or an empty directory.
func (p Path) Remove() error {
	if err := p.check("remove"); err != nil {
		return err
	}
	if err := p.fs.Remove(p.name); err != nil {
		return errors.FromFS(err, "remove", p.name)
	}
	p.log.Debug("removed", "path", p.name)
	return nil
}

// RemoveAll deletes p and everything below it. A missing path is not an
// error.
func (p Path) RemoveAll() error {
	if err := p.check("removeall"); err != nil {
		return err
	}
	if err := p.fs.RemoveAll(p.name); err != nil {
		return errors.FromFS(err, "removeall", p.name)
	}
	p.log.Debug("removed tree", "path", p.name)
	return nil
}

// Rename gives p a new name in the same directory and returns the renamed
// path. newName must be a single element.
func (p Path) Rename(newName string) (Path, error) {
	if newName == "" || newName == "." || newName == ".." || strings.Contains(newName, "/") {
		return Path{}, errors.WithContextMap(
			errors.Newf(errors.CodeInvalidInput, "invalid name %q", newName),
			map[string]interface{}{"op": "rename", "path": p.name},
		)
	}
	dst := p.Dir().Join(newName)
	if err := p.rename(dst); err != nil {
		return Path{}, err
	}
	return dst, nil
}

func (p Path) rename(dst Path) error {
	if err := p.check("rename"); err != nil {
		return err
	}
	if err := p.fs.Rename(p.name, dst.name); err != nil {
		return errors.WrapWithContext(err, errors.CodeFromFS(err, errors.CodeIOFailed), "rename failed", map[string]interface{}{
			"op":   "rename",
			"from": p.name,
			"to":   dst.name,
		})
	}
	p.log.Debug("renamed", "from", p.name, "to", dst.name)
	return nil
}

// MoveTo moves p to dst. Moves within one provider use its Rename; moves
// across providers copy and then remove the source.
func (p Path) MoveTo(ctx context.Context, dst Path) error {
	if err := dst.check("move"); err != nil {
		return err
	}
	if p.fs == dst.fs {
		if err := dst.Dir().MkdirAll(); err != nil {
			return err
		}
		return p.rename(dst)
	}
	if err := p.CopyTo(ctx, dst); err != nil {
		return err
	}
	return p.RemoveAll()
}

// CopyTo copies a file or a directory tree to dst, which may live on a
// different provider. Existing files at the destination are overwritten.
func (p Path) CopyTo(ctx context.Context, dst Path) error {
	if err := dst.check("copy"); err != nil {
		return err
	}
	info, err := p.Stat()
	if err != nil {
		return err
	}

	if info.IsDir() {
		err = core.CopyTree(ctx, p.fs, p.name, dst.fs, dst.name, core.DefaultCopyConcurrency)
	} else {
		err = core.CopyFile(p.fs, p.name, dst.fs, dst.name)
	}
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFromFS(err, errors.CodeIOFailed), "copy failed", map[string]interface{}{
			"op":   "copy",
			"from": p.name,
			"to":   dst.name,
		})
	}
	p.log.Debug("copied", "from", p.name, "to", dst.name, "dir", info.IsDir())
	return nil
}
