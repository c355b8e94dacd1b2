package lines

import (
	"bytes"
	"io"
	"io/fs"
	"slices"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/internal/logging"
)

// maxEmptyReads bounds consecutive (0, nil) reads before a read is treated
// as stuck.
const maxEmptyReads = 100

// Handle is the file access a Reader needs. Every core.FS provider returns
// files that satisfy it.
type Handle interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Stats describes the work a Reader has done since it was created.
type Stats struct {
	// BytesRead is the total number of bytes returned by the handle.
	BytesRead int64
	// Chunks is the number of reads that returned data.
	Chunks int
	// Records is the number of records returned, including failed decodes.
	Records int
	// DecodeErrors is the number of records that failed to decode.
	DecodeErrors int
	// MaxBuffered is the largest number of unconsumed bytes held at once.
	MaxBuffered int
}

// Reader yields delimiter-separated records from a Handle.
type Reader struct {
	h         Handle
	name      string
	delim     []byte
	chunkSize int
	dec       *decoder
	log       *logging.Logger

	buf     []byte // buf[start:] is unconsumed
	start   int
	scanned int   // bytes of buf[start:] known to hold no delimiter
	offset  int64 // stream offset of buf[start]
	record  int

	atEnd   bool
	pending error // error returned with data, reported on the next read
	err     error
	closed  bool
	stats   Stats
}

// Open opens name in fsys and returns a Reader positioned at its start.
// The Reader owns the file and must be closed.
func Open(fsys fs.FS, name string, opts ...Option) (*Reader, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, openError(name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, openError(name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, openError(name, &fs.PathError{Op: "open", Path: name, Err: core.ErrIsDirectory})
	}

	h, ok := f.(Handle)
	if !ok {
		_ = f.Close()
		return nil, openError(name, &fs.PathError{Op: "open", Path: name, Err: core.ErrNotSeekable})
	}

	r, err := newReader(h, name, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// New returns a Reader over an already open handle, which it takes
// ownership of. Reading starts at the handle's current position; Reset
// rewinds to offset 0.
func New(h Handle, opts ...Option) (*Reader, error) {
	if h == nil {
		return nil, errors.New(errors.CodeInvalidInput, "handle is nil")
	}
	var name string
	if n, ok := h.(interface{ Name() string }); ok {
		name = n.Name()
	}
	return newReader(h, name, opts)
}

func newReader(h Handle, name string, opts []Option) (*Reader, error) {
	o := newOptions(opts)
	if o.chunkSize < 1 {
		return nil, errors.Newf(errors.CodeInvalidInput, "chunk size must be at least 1, got %d", o.chunkSize)
	}

	enc := o.enc
	if o.encName != "" {
		var err error
		if enc, err = LookupEncoding(o.encName); err != nil {
			return nil, err
		}
	}
	dec := newDecoder(enc, o.lenient)

	delim := o.delim
	if delim == nil {
		text := DefaultDelimiter
		if o.delimText != nil {
			text = *o.delimText
		}
		var err error
		if delim, err = dec.encode(text); err != nil {
			return nil, err
		}
	}
	if len(delim) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "delimiter must not be empty")
	}

	log := logging.NewNopLogger()
	if o.logger != nil {
		log = logging.FromSlog(o.logger)
	}

	return &Reader{
		h:         h,
		name:      name,
		delim:     delim,
		chunkSize: o.chunkSize,
		dec:       dec,
		log:       log.WithPath(name),
	}, nil
}

// Name returns the name the reader was opened with.
func (r *Reader) Name() string {
	return r.name
}

// Delimiter returns a copy of the byte sequence separating records.
func (r *Reader) Delimiter() []byte {
	return slices.Clone(r.delim)
}

// Stats returns counters describing the reads made so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Next returns the next record without its delimiter. It returns io.EOF
// once the input is exhausted, and keeps doing so until Reset.
//
// A decode failure consumes the offending record and returns an error with
// errors.CodeDecodeFailed; calling Next again continues with the following
// record. A read failure returns errors.CodeReadFailed and is returned by
// every later call.
func (r *Reader) Next() (string, error) {
	if r.closed {
		return "", closedError(r.name, r.offset)
	}
	if r.err != nil {
		return "", r.err
	}
	if r.atEnd {
		return "", io.EOF
	}

	for {
		if i := r.index(); i >= 0 {
			return r.emit(i, len(r.delim))
		}

		n, err := r.fill()
		if err != nil {
			r.err = readError(r.name, r.offset+int64(len(r.buf)-r.start), err)
			r.log.Debug("read failed", "error", err)
			return "", r.err
		}
		if n > 0 {
			continue
		}

		r.atEnd = true
		r.log.Debug("end of input", "records", r.stats.Records, "bytes", r.stats.BytesRead)
		if rest := len(r.buf) - r.start; rest > 0 {
			return r.emit(rest, 0)
		}
		return "", io.EOF
	}
}

// index returns the position of the first delimiter in buf[start:], or -1.
// Bytes already scanned are skipped except for a len(delim)-1 overlap, so a
// delimiter split across two reads is still found.
func (r *Reader) index() int {
	from := max(r.scanned-(len(r.delim)-1), 0)
	pending := r.buf[r.start:]
	if i := bytes.Index(pending[from:], r.delim); i >= 0 {
		return from + i
	}
	r.scanned = len(pending)
	return -1
}

// emit consumes n record bytes plus skip delimiter bytes and decodes the
// record.
func (r *Reader) emit(n, skip int) (string, error) {
	raw := r.buf[r.start : r.start+n]
	offset := r.offset
	record := r.record

	r.start += n + skip
	r.offset += int64(n + skip)
	r.scanned = 0
	r.record++
	r.stats.Records++

	s, err := r.dec.decode(raw)
	if err != nil {
		r.stats.DecodeErrors++
		r.log.Debug("decode failed", "record", record, "offset", offset)
		return "", decodeError(r.name, record, offset, err)
	}
	return s, nil
}

// fill reads up to chunkSize bytes onto the end of the buffer, compacting
// consumed bytes first. It returns 0, nil at end of input.
func (r *Reader) fill() (int, error) {
	if err := r.pending; err != nil {
		r.pending = nil
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}

	if r.start > 0 {
		n := copy(r.buf, r.buf[r.start:])
		r.buf = r.buf[:n]
		r.start = 0
	}
	r.buf = slices.Grow(r.buf, r.chunkSize)
	end := len(r.buf)

	for empty := 0; ; {
		n, err := r.h.Read(r.buf[end : end+r.chunkSize])
		if n > 0 {
			r.buf = r.buf[:end+n]
			r.pending = err
			r.stats.BytesRead += int64(n)
			r.stats.Chunks++
			r.stats.MaxBuffered = max(r.stats.MaxBuffered, len(r.buf))
			return n, nil
		}
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if empty++; empty >= maxEmptyReads {
			return 0, io.ErrNoProgress
		}
	}
}

// Reset rewinds the handle to offset 0 and clears all buffered state, so
// the records can be read again. It does not reopen the file. A reader in
// a read-failed state stays there.
func (r *Reader) Reset() error {
	if r.closed {
		return closedError(r.name, 0)
	}
	if r.err != nil {
		return r.err
	}
	if _, err := r.h.Seek(0, io.SeekStart); err != nil {
		r.err = readError(r.name, 0, err)
		return r.err
	}

	r.buf = r.buf[:0]
	r.start = 0
	r.scanned = 0
	r.offset = 0
	r.record = 0
	r.atEnd = false
	r.pending = nil
	return nil
}

// Close releases the handle. Calling Close more than once is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.buf = nil
	if err := r.h.Close(); err != nil {
		return errors.FromFS(err, "close", r.name)
	}
	return nil
}
