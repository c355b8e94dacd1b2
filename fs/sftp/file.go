package sftp

import (
	"io"
	"io/fs"

	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/pkg/sftp"
)

// File wraps an sftp.File so that Name reports the caller's name and
// Close is idempotent.
type File struct {
	fs     *SFTPFS
	file   *sftp.File
	name   string
	closed bool
}

func newFile(s *SFTPFS, f *sftp.File, name string) *File {
	return &File{fs: s, file: f, name: name}
}

// Read reads from the current offset.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrClosed}
	}
	return f.file.Read(p)
}

// Write writes at the current offset.
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: fs.ErrClosed}
	}
	return f.file.Write(p)
}

// Seek sets the offset for the next Read or Write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: fs.ErrClosed}
	}
	return f.file.Seek(offset, whence)
}

// ReadAt reads len(p) bytes at off without moving the offset.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "readat", Path: f.name, Err: fs.ErrClosed}
	}
	return f.file.ReadAt(p, off)
}

// Stat returns information about the open file.
func (f *File) Stat() (fs.FileInfo, error) {
	return f.file.Stat()
}

// Name returns the name given to Open or Create.
func (f *File) Name() string {
	return f.name
}

// Sync flushes the file on the server when it supports the fsync
// extension and is a no-op otherwise.
func (f *File) Sync() error {
	if f.closed {
		return &fs.PathError{Op: "sync", Path: f.name, Err: fs.ErrClosed}
	}
	if _, ok := f.fs.client.HasExtension(fsyncExt); !ok {
		return nil
	}
	return f.file.Sync()
}

// Close closes the remote handle. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

var (
	_ core.File   = (*File)(nil)
	_ core.Syncer = (*File)(nil)
	_ io.Seeker   = (*File)(nil)
	_ io.ReaderAt = (*File)(nil)
)
