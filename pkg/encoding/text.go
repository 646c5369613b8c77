// Package encoding converts mesh text input to UTF-8 before parsing.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for an encoding name Decode does not know.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Encoding names accepted by Decode.
const (
	UTF8    = "utf-8"
	Auto    = "auto"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	EUCKR   = "euc-kr"
	Latin1  = "latin1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Names returns the accepted encoding names.
func Names() []string {
	return []string{UTF8, Auto, UTF16LE, UTF16BE, EUCKR, Latin1}
}

// Valid reports whether name is an accepted encoding name.
func Valid(name string) bool {
	_, err := decoder(name)
	return err == nil
}

// decoder returns the transformer for name. A nil transformer means the
// input is UTF-8 and only needs its BOM stripped.
func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", UTF8, "utf8":
		return nil, nil
	case Auto:
		// BOM decides; input without a BOM is read as UTF-8.
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), nil
	case EUCKR, "cp949":
		return korean.EUCKR.NewDecoder(), nil
	case Latin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Decode converts data in the named encoding to UTF-8.
func Decode(data []byte, name string) ([]byte, error) {
	t, err := decoder(name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s input: %w", name, err)
	}
	return out, nil
}
