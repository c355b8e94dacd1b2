package minio

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/minio/minio-go/v7"
)

// reader streams an object without buffering it. Seeking reopens the
// object with a range request; ReadAt issues its own request and leaves the
// stream position alone.
type reader struct {
	fs     *MinioFS
	key    string
	name   string
	info   *fileInfo
	obj    *minio.Object // nil once positioned at or past the end
	offset int64
	closed bool
}

// newReader stats the object and opens a stream at offset zero.
func newReader(ctx context.Context, m *MinioFS, key, name string) (*reader, error) {
	info, err := m.statObject(ctx, name)
	if err != nil {
		return nil, pathError("open", name, errors.Unwrap(err))
	}

	r := &reader{fs: m, key: key, name: name, info: info}
	if err := r.reopen(ctx, 0); err != nil {
		return nil, err
	}
	return r, nil
}

// reopen replaces the stream with one starting at offset.
func (r *reader) reopen(ctx context.Context, offset int64) error {
	if r.obj != nil {
		_ = r.obj.Close()
		r.obj = nil
	}
	r.offset = offset
	if offset >= r.info.size {
		return nil
	}

	opts := minio.GetObjectOptions{}
	if offset > 0 {
		if err := opts.SetRange(offset, 0); err != nil {
			return pathError("seek", r.name, err)
		}
	}
	obj, err := r.fs.client.GetObject(ctx, r.fs.bucket, r.key, opts)
	if err != nil {
		return pathError("open", r.name, translate(err))
	}
	r.obj = obj
	return nil
}

// Read reads from the current position. Data and io.EOF are never returned
// together.
func (r *reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, pathError("read", r.name, fs.ErrClosed)
	}
	if r.obj == nil {
		return 0, io.EOF
	}

	n, err := r.obj.Read(p)
	r.offset += int64(n)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	default:
		return n, pathError("read", r.name, translate(err))
	}
}

// Seek moves the read position.
//
//nolint:contextcheck // io.Seeker cannot take a context
func (r *reader) Seek(offset int64, whence int) (int64, error) {
	if r.closed {
		return 0, pathError("seek", r.name, fs.ErrClosed)
	}

	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = r.offset + offset
	case io.SeekEnd:
		next = r.info.size + offset
	default:
		return 0, pathError("seek", r.name, fs.ErrInvalid)
	}
	if next < 0 {
		return 0, pathError("seek", r.name, fs.ErrInvalid)
	}
	if next == r.offset && (r.obj != nil || next >= r.info.size) {
		return next, nil
	}

	if err := r.reopen(context.Background(), next); err != nil {
		return 0, err
	}
	return next, nil
}

// ReadAt reads len(p) bytes starting at off with a dedicated range request.
//
//nolint:contextcheck // io.ReaderAt cannot take a context
func (r *reader) ReadAt(p []byte, off int64) (int, error) {
	if r.closed {
		return 0, pathError("readat", r.name, fs.ErrClosed)
	}
	if off < 0 {
		return 0, pathError("readat", r.name, fs.ErrInvalid)
	}
	if off >= r.info.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := min(off+int64(len(p)), r.info.size) - 1
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return 0, pathError("readat", r.name, err)
	}
	obj, err := r.fs.client.GetObject(context.Background(), r.fs.bucket, r.key, opts)
	if err != nil {
		return 0, pathError("readat", r.name, translate(err))
	}
	defer func() {
		_ = obj.Close()
	}()

	want := int(end - off + 1)
	n, err := io.ReadFull(obj, p[:want])
	if err != nil {
		return n, pathError("readat", r.name, translate(err))
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Stat returns the object information captured at open.
func (r *reader) Stat() (fs.FileInfo, error) {
	return r.info, nil
}

// Name returns the name given to Open.
func (r *reader) Name() string {
	return r.name
}

// Write always fails; the handle is read-only.
func (r *reader) Write(_ []byte) (int, error) {
	return 0, pathError("write", r.name, fs.ErrInvalid)
}

// Close releases the stream. Closing twice is a no-op.
func (r *reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.obj == nil {
		return nil
	}
	return r.obj.Close()
}

var (
	_ core.File   = (*reader)(nil)
	_ io.Seeker   = (*reader)(nil)
	_ io.ReaderAt = (*reader)(nil)
)
