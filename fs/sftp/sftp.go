package sftp

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/internal/logging"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const (
	posixRenameExt = "posix-rename@openssh.com"
	fsyncExt       = "fsync@openssh.com"
)

// SFTPFS implements core.FS over an SFTP session.
//
//nolint:revive // SFTPFS matches the LocalFS/MinioFS naming used by the other providers
type SFTPFS struct {
	client *sftp.Client
	conn   *ssh.Client
	root   string
	log    *logging.Logger
}

// NewSFTP connects to the configured server, or wraps Config.Client when
// one is given.
func NewSFTP(cfg Config) (*SFTPFS, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	log := logging.FromSlog(cfg.Logger).With("provider", "sftp")

	if cfg.Client != nil {
		return &SFTPFS{client: cfg.Client, root: path.Clean(cfg.Root), log: log}, nil
	}

	client, conn, err := dial(cfg, log)
	if err != nil {
		return nil, err
	}
	return &SFTPFS{client: client, conn: conn, root: path.Clean(cfg.Root), log: log}, nil
}

// Close ends the session and the SSH connection when NewSFTP created them.
// Filesystems returned by Chroot share the session and do nothing.
func (s *SFTPFS) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.client.Close()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	s.conn = nil
	return err
}

// resolve maps a name onto the server. ".." never climbs above the root.
func (s *SFTPFS) resolve(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Join(s.root, strings.TrimPrefix(path.Clean("/"+name), "/"))
}

// pathError reports err against the caller's name instead of the server
// path.
func pathError(op, name string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	if errors.Is(err, os.ErrNotExist) {
		err = fs.ErrNotExist
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// Type returns FSTypeRemote.
func (s *SFTPFS) Type() core.FSType {
	return core.FSTypeRemote
}

// Open opens the named file for reading.
func (s *SFTPFS) Open(name string) (fs.File, error) {
	return s.OpenFile(name, os.O_RDONLY, 0)
}

// Stat returns information about the named file.
func (s *SFTPFS) Stat(name string) (fs.FileInfo, error) {
	info, err := s.client.Stat(s.resolve(name))
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	return info, nil
}

// ReadDir returns the directory entries sorted by name.
func (s *SFTPFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := s.client.ReadDir(s.resolve(name))
	if err != nil {
		return nil, pathError("readdir", name, err)
	}

	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ReadFile reads the named file.
func (s *SFTPFS) ReadFile(name string) ([]byte, error) {
	f, err := s.client.Open(s.resolve(name))
	if err != nil {
		return nil, pathError("readfile", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, pathError("readfile", name, err)
	}
	return data, nil
}

// Exists reports whether the named file or directory exists.
func (s *SFTPFS) Exists(name string) (bool, error) {
	_, err := s.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create creates or truncates the named file.
func (s *SFTPFS) Create(name string) (core.File, error) {
	return s.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// OpenFile opens the named file with the given flags. New files receive
// perm.
func (s *SFTPFS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	full := s.resolve(name)
	f, err := s.client.OpenFile(full, flag)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	if flag&os.O_CREATE != 0 && perm != 0 {
		if err := f.Chmod(perm); err != nil {
			s.log.Debug("chmod after create failed", "path", name, "error", err)
		}
	}
	return newFile(s, f, name), nil
}

// WriteFile writes data to the named file, creating or truncating it.
func (s *SFTPFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f, err := s.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return pathError("writefile", name, err)
	}
	if err := f.Close(); err != nil {
		return pathError("writefile", name, err)
	}
	return nil
}

// Mkdir creates a single directory. Servers report an existing directory
// as a generic failure, so existence is checked first.
func (s *SFTPFS) Mkdir(name string, perm fs.FileMode) error {
	full := s.resolve(name)
	if _, err := s.client.Lstat(full); err == nil {
		return pathError("mkdir", name, fs.ErrExist)
	}
	if err := s.client.Mkdir(full); err != nil {
		return pathError("mkdir", name, err)
	}
	if perm != 0 {
		_ = s.client.Chmod(full, perm)
	}
	return nil
}

// MkdirAll creates a directory and any missing parents.
func (s *SFTPFS) MkdirAll(name string, _ fs.FileMode) error {
	if err := s.client.MkdirAll(s.resolve(name)); err != nil {
		return pathError("mkdirall", name, err)
	}
	return nil
}

// Remove removes a file or an empty directory.
func (s *SFTPFS) Remove(name string) error {
	if err := s.client.Remove(s.resolve(name)); err != nil {
		return pathError("remove", name, err)
	}
	return nil
}

// RemoveAll removes name and everything below it. A missing name is not an
// error.
func (s *SFTPFS) RemoveAll(name string) error {
	full := s.resolve(name)
	if full == s.root {
		entries, err := s.ReadDir(name)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := s.RemoveAll(path.Join(name, e.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := s.client.Lstat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return pathError("removeall", name, err)
	}
	if err := s.client.RemoveAll(full); err != nil {
		return pathError("removeall", name, err)
	}
	return nil
}

// Rename moves oldpath to newpath, replacing newpath when the server
// supports POSIX rename semantics.
func (s *SFTPFS) Rename(oldpath, newpath string) error {
	from, to := s.resolve(oldpath), s.resolve(newpath)

	var err error
	if _, ok := s.client.HasExtension(posixRenameExt); ok {
		err = s.client.PosixRename(from, to)
	} else {
		err = s.client.Rename(from, to)
	}
	if err != nil {
		return pathError("rename", oldpath, err)
	}
	return nil
}

// Walk walks the tree rooted at root in lexical order.
func (s *SFTPFS) Walk(root string, walkFn fs.WalkDirFunc) error {
	return fs.WalkDir(s, root, walkFn)
}

// Chroot returns a filesystem scoped to the existing directory dir. It
// shares this filesystem's session.
func (s *SFTPFS) Chroot(dir string) (core.FS, error) {
	info, err := s.Stat(dir)
	if err != nil {
		return nil, pathError("chroot", dir, err)
	}
	if !info.IsDir() {
		return nil, pathError("chroot", dir, fs.ErrInvalid)
	}
	return &SFTPFS{client: s.client, root: s.resolve(dir), log: s.log}, nil
}

var _ core.FS = (*SFTPFS)(nil)
