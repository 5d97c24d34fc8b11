package loader

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8bom = []byte{0xEF, 0xBB, 0xBF}

// Encoding is one candidate character encoding in the loader's priority
// list. A nil charmap means validated UTF-8 (invalid byte sequences make
// the candidate fail, so the search moves on, instead of silently decoding
// to replacement runes).
type Encoding struct {
	Name     string
	cm       encoding.Encoding
	stripBOM bool
}

// Decode converts raw bytes to a UTF-8 string, or fails so the caller can
// try the next candidate.
func (e Encoding) Decode(raw []byte) (string, error) {
	b := raw
	if e.stripBOM {
		b = bytes.TrimPrefix(b, utf8bom)
	}
	if e.cm == nil {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%s: invalid byte sequence", e.Name)
		}
		return string(b), nil
	}
	out, err := e.cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.Name, err)
	}
	return string(out), nil
}

// DefaultEncodings is the fixed candidate order for Brazilian government
// extracts: latin1 first (it decodes anything, and most CAT files are
// latin1), then BOM-tolerant UTF-8, plain UTF-8, and cp1252.
func DefaultEncodings() []Encoding {
	return []Encoding{
		{Name: "latin1", cm: charmap.ISO8859_1},
		{Name: "utf-8-sig", stripBOM: true},
		{Name: "utf-8"},
		{Name: "cp1252", cm: charmap.Windows1252},
	}
}

// Reorder moves the named encoding to the front of the default priority
// list. Unknown names leave the default order untouched.
func Reorder(preferred string) []Encoding {
	encs := DefaultEncodings()
	for i, e := range encs {
		if e.Name == preferred {
			reordered := append([]Encoding{e}, append(append([]Encoding{}, encs[:i]...), encs[i+1:]...)...)
			return reordered
		}
	}
	return encs
}
