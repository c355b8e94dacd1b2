package fspath

import (
	"github.com/jmgilman/go/pathfs/lines"
)

// Lines opens p for reading records one at a time. The reader must be
// closed.
func (p Path) Lines(opts ...lines.Option) (*lines.Reader, error) {
	if err := p.check("open"); err != nil {
		return nil, err
	}
	return lines.Open(p.fs, p.name, opts...)
}

// EachLine calls fn for every record in p.
func (p Path) EachLine(fn func(string) error, opts ...lines.Option) error {
	if err := p.check("open"); err != nil {
		return err
	}
	return lines.Each(p.fs, p.name, fn, opts...)
}

// ReadLines returns every record in p.
func (p Path) ReadLines(opts ...lines.Option) ([]string, error) {
	if err := p.check("open"); err != nil {
		return nil, err
	}
	return lines.ReadAll(p.fs, p.name, opts...)
}
