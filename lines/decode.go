package lines

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/jmgilman/go/pathfs/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidEncoding is the cause of every decode failure.
var ErrInvalidEncoding = errors.New(errors.CodeDecodeFailed, "invalid byte sequence for encoding")

const replacement = string(utf8.RuneError)

// decoder turns record bytes into strings. A nil enc means UTF-8, which is
// validated natively because x/text's UTF-8 decoder repairs input silently.
type decoder struct {
	enc     encoding.Encoding
	lenient bool

	// encodedReplacement is U+FFFD in enc, or nil when enc cannot represent it.
	encodedReplacement []byte
}

func newDecoder(enc encoding.Encoding, lenient bool) *decoder {
	if enc == unicode.UTF8 {
		enc = nil
	}
	d := &decoder{enc: enc, lenient: lenient}
	if enc != nil && enc != encoding.Nop {
		d.encodedReplacement = encodeRune(enc, utf8.RuneError)
	}
	return d
}

// encodeRune returns the bytes r occupies in enc. Encoding the rune twice
// and keeping the tail drops any byte order mark the encoder prepends.
func encodeRune(enc encoding.Encoding, r rune) []byte {
	one, err := enc.NewEncoder().String(string(r))
	if err != nil {
		return nil
	}
	two, err := enc.NewEncoder().String(string([]rune{r, r}))
	if err != nil {
		return nil
	}
	width := len(two) - len(one)
	if width <= 0 {
		return nil
	}
	return []byte(two[len(two)-width:])
}

// substitutions counts U+FFFD the decoder produced for bytes that did not
// encode U+FFFD themselves.
func (d *decoder) substitutions(in, out []byte) int {
	n := bytes.Count(out, []byte(replacement))
	if len(d.encodedReplacement) > 0 {
		n -= bytes.Count(in, d.encodedReplacement)
	}
	return n
}

func (d *decoder) decode(b []byte) (string, error) {
	switch d.enc {
	case nil:
		if utf8.Valid(b) {
			return string(b), nil
		}
		if d.lenient {
			return strings.ToValidUTF8(string(b), replacement), nil
		}
		return "", ErrInvalidEncoding
	case encoding.Nop:
		return string(b), nil
	}

	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeDecodeFailed, ErrInvalidEncoding.Message())
	}
	// x/text decoders substitute U+FFFD rather than fail.
	if !d.lenient && d.substitutions(b, out) > 0 {
		return "", ErrInvalidEncoding
	}
	return string(out), nil
}

// encode converts delimiter text into the bytes it occupies on disk.
func (d *decoder) encode(s string) ([]byte, error) {
	if d.enc == nil || d.enc == encoding.Nop {
		return []byte(s), nil
	}
	b, err := d.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidInput, "delimiter %q cannot be encoded", s)
	}
	return b, nil
}

// LookupEncoding resolves an IANA encoding name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidInput, "unknown encoding %q", name)
	}
	if enc == nil {
		return nil, errors.Newf(errors.CodeUnsupported, "encoding %q is not supported", name)
	}
	return enc, nil
}
