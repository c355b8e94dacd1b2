package lines

import (
	"io"
	"io/fs"
	"iter"

	"github.com/jmgilman/go/pathfs/errors"
)

// All rewinds the reader and returns an iterator over its records.
//
// Decode failures are yielded with an empty record and iteration continues.
// Any other error is yielded once and ends the iteration. The iterator can
// be ranged over again; each range starts from the beginning.
func (r *Reader) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := r.Reset(); err != nil {
			yield("", err)
			return
		}
		for {
			line, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(line, err) {
				return
			}
			if err != nil && errors.GetCode(err) != errors.CodeDecodeFailed {
				return
			}
		}
	}
}

// Collect rewinds the reader and returns every record. It stops at the
// first error, returning the records read before it.
func (r *Reader) Collect() ([]string, error) {
	var out []string
	for line, err := range r.All() {
		if err != nil {
			return out, err
		}
		out = append(out, line)
	}
	return out, nil
}

// Each opens name, calls fn for every record and closes the file. It stops
// at the first error from the reader or from fn.
func Each(fsys fs.FS, name string, fn func(line string) error, opts ...Option) (err error) {
	r, err := Open(fsys, name, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	for {
		line, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(line); err != nil {
			return err
		}
	}
}

// ReadAll opens name and returns all of its records.
func ReadAll(fsys fs.FS, name string, opts ...Option) ([]string, error) {
	var out []string
	err := Each(fsys, name, func(line string) error {
		out = append(out, line)
		return nil
	}, opts...)
	return out, err
}

// Count opens name and returns the number of records.
func Count(fsys fs.FS, name string, opts ...Option) (int, error) {
	n := 0
	err := Each(fsys, name, func(string) error {
		n++
		return nil
	}, opts...)
	return n, err
}
