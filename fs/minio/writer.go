package minio

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/minio/minio-go/v7"
)

const contentType = "application/octet-stream"

// writer buffers writes in memory and uploads them on Close. Once the
// buffer would grow past the multipart threshold it switches to a streaming
// upload fed through a pipe.
type writer struct {
	fs      *MinioFS
	key     string
	name    string
	buffer  *bytes.Buffer
	pipeW   *io.PipeWriter
	putRes  chan error
	written int64
	closed  bool
}

func newWriter(m *MinioFS, key, name string) *writer {
	return &writer{fs: m, key: key, name: name, buffer: new(bytes.Buffer)}
}

// Write appends p to the object.
//
//nolint:contextcheck // io.Writer cannot take a context
func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, pathError("write", w.name, fs.ErrClosed)
	}

	if w.pipeW != nil {
		return w.stream(p)
	}
	if int64(w.buffer.Len()+len(p)) <= w.threshold() || w.fs.client == nil {
		n, _ := w.buffer.Write(p)
		w.written += int64(n)
		return n, nil
	}

	w.startStreaming()
	if _, err := w.pipeW.Write(w.buffer.Bytes()); err != nil {
		return 0, pathError("write", w.name, err)
	}
	w.buffer = nil
	return w.stream(p)
}

func (w *writer) threshold() int64 {
	if w.fs.multipartThreshold <= 0 {
		return defaultMultipartThreshold
	}
	return w.fs.multipartThreshold
}

// startStreaming begins a PutObject of unknown size reading from a pipe.
func (w *writer) startStreaming() {
	pr, pw := io.Pipe()
	w.pipeW = pw
	w.putRes = make(chan error, 1)
	w.fs.log.Debug("switching to streaming upload", "path", w.name, "buffered", w.buffer.Len())

	go func() {
		_, err := w.fs.client.PutObject(context.Background(), w.fs.bucket, w.key, pr, -1,
			minio.PutObjectOptions{ContentType: contentType})
		_ = pr.CloseWithError(err)
		w.putRes <- translate(err)
		close(w.putRes)
	}()
}

func (w *writer) stream(p []byte) (int, error) {
	n, err := w.pipeW.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, pathError("write", w.name, err)
	}
	return n, nil
}

// Sync uploads the buffered content. A streaming upload completes on Close,
// so Sync is a no-op once streaming has started.
func (w *writer) Sync() error {
	if w.closed {
		return pathError("sync", w.name, fs.ErrClosed)
	}
	if w.pipeW != nil {
		return nil
	}
	if err := w.upload(context.Background()); err != nil {
		return pathError("sync", w.name, err)
	}
	return nil
}

// Close finishes the upload. Closing twice is a no-op.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.pipeW != nil {
		_ = w.pipeW.Close()
		if err := <-w.putRes; err != nil {
			return pathError("close", w.name, err)
		}
		return nil
	}
	if err := w.upload(context.Background()); err != nil {
		return pathError("close", w.name, err)
	}
	return nil
}

func (w *writer) upload(ctx context.Context) error {
	if w.fs.client == nil {
		return errors.New(errors.CodeInvalidConfig, "minio client is not configured")
	}
	_, err := w.fs.client.PutObject(ctx, w.fs.bucket, w.key, bytes.NewReader(w.buffer.Bytes()),
		int64(w.buffer.Len()), minio.PutObjectOptions{ContentType: contentType})
	return translate(err)
}

// Stat reports the bytes written so far.
func (w *writer) Stat() (fs.FileInfo, error) {
	return newFileInfo(path.Base(w.key), w.written, time.Now()), nil
}

// Name returns the name given to Create or OpenFile.
func (w *writer) Name() string {
	return w.name
}

// Read always fails; the handle is write-only.
func (w *writer) Read(_ []byte) (int, error) {
	return 0, pathError("read", w.name, fs.ErrInvalid)
}

var (
	_ core.File   = (*writer)(nil)
	_ core.Syncer = (*writer)(nil)
)
