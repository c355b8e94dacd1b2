package lines

import (
	"log/slog"

	"golang.org/x/text/encoding"
)

const (
	// DefaultDelimiter separates records when no delimiter is given.
	DefaultDelimiter = "\n"

	// DefaultChunkSize is the number of bytes requested per read.
	DefaultChunkSize = 4096
)

// Option configures a Reader.
type Option func(*options)

type options struct {
	delim     []byte
	delimText *string
	chunkSize int
	enc       encoding.Encoding
	encName   string
	lenient   bool
	logger    *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDelimiter sets the raw byte sequence separating records. The bytes
// are matched as is, whatever the encoding.
func WithDelimiter(delim []byte) Option {
	return func(o *options) {
		o.delim = append([]byte(nil), delim...)
		o.delimText = nil
	}
}

// WithDelimiterString sets the delimiter as text. It is encoded with the
// reader's encoding, so "\n" becomes "\n\x00" for UTF-16LE.
func WithDelimiterString(delim string) Option {
	return func(o *options) {
		o.delim = nil
		o.delimText = &delim
	}
}

// WithChunkSize sets the number of bytes requested per read. It must be at
// least 1.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithEncoding decodes records with enc instead of UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		o.enc = enc
		o.encName = ""
	}
}

// WithEncodingName decodes records with the encoding registered under the
// given IANA name, such as "ISO-8859-1" or "UTF-16LE".
func WithEncodingName(name string) Option {
	return func(o *options) {
		o.enc = nil
		o.encName = name
	}
}

// WithReplacement replaces invalid byte sequences with U+FFFD instead of
// failing the record.
func WithReplacement() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
