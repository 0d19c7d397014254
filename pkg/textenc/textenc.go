// Package textenc decodes raw interchange bytes into UTF-8 text.
//
// EDIFACT interchanges declare their character repertoire in the UNB syntax
// identifier (UNOA, UNOC, UNOY, ...). With the "auto" encoding the decoder reads
// that identifier, honors a UTF-8 byte order mark, and otherwise falls back to
// UTF-8 when the input is valid UTF-8 and ISO-8859-1 when it is not.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted by Decode.
const (
	Auto        = "auto"
	UTF8        = "utf-8"
	ISO8859_1   = "iso-8859-1"
	ISO8859_2   = "iso-8859-2"
	ISO8859_3   = "iso-8859-3"
	ISO8859_4   = "iso-8859-4"
	ISO8859_5   = "iso-8859-5"
	ISO8859_6   = "iso-8859-6"
	ISO8859_7   = "iso-8859-7"
	ISO8859_8   = "iso-8859-8"
	ISO8859_9   = "iso-8859-9"
	ISO8859_15  = "iso-8859-15"
	Windows1252 = "windows-1252"
)

// Sentinel errors.
var (
	// ErrUnknownEncoding indicates an encoding name that is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInvalidUTF8 indicates input declared or configured as UTF-8 that is not.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// sniffWindow bounds how far into the input the UNB segment is searched for.
const sniffWindow = 512

//nolint:gochecknoglobals // Read-only lookup table.
var charmaps = map[string]encoding.Encoding{
	ISO8859_1:   charmap.ISO8859_1,
	ISO8859_2:   charmap.ISO8859_2,
	ISO8859_3:   charmap.ISO8859_3,
	ISO8859_4:   charmap.ISO8859_4,
	ISO8859_5:   charmap.ISO8859_5,
	ISO8859_6:   charmap.ISO8859_6,
	ISO8859_7:   charmap.ISO8859_7,
	ISO8859_8:   charmap.ISO8859_8,
	ISO8859_9:   charmap.ISO8859_9,
	ISO8859_15:  charmap.ISO8859_15,
	Windows1252: charmap.Windows1252,
}

// syntaxIdentifiers maps UNB syntax identifiers to encodings.
// UNOA and UNOB are ASCII subsets and decode as UTF-8.
//
//nolint:gochecknoglobals // Read-only lookup table.
var syntaxIdentifiers = map[string]string{
	"UNOA": UTF8,
	"UNOB": UTF8,
	"UNOC": ISO8859_1,
	"UNOD": ISO8859_2,
	"UNOE": ISO8859_5,
	"UNOF": ISO8859_7,
	"UNOG": ISO8859_3,
	"UNOH": ISO8859_4,
	"UNOI": ISO8859_6,
	"UNOJ": ISO8859_8,
	"UNOK": ISO8859_9,
	"UNOW": UTF8,
	"UNOY": UTF8,
}

//nolint:gochecknoglobals // Read-only lookup table.
var aliases = map[string]string{
	"utf8":    UTF8,
	"latin1":  ISO8859_1,
	"latin-1": ISO8859_1,
	"latin9":  ISO8859_15,
	"cp1252":  Windows1252,
}

//nolint:gochecknoglobals // Read-only byte sequence.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result is decoded text plus how it was decoded.
type Result struct {
	// Text is the decoded input without any byte order mark.
	Text string

	// Encoding is the canonical name of the encoding that was applied.
	Encoding string

	// BOM is true if a UTF-8 byte order mark was stripped.
	BOM bool

	// Sniffed is the UNB syntax identifier the encoding was chosen from, if any.
	Sniffed string
}

// Names returns all accepted canonical encoding names, sorted, including Auto.
func Names() []string {
	names := make([]string, 0, len(charmaps)+2)
	names = append(names, Auto, UTF8)
	for name := range charmaps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Normalize returns the canonical form of an encoding name.
// The empty string normalizes to Auto.
func Normalize(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Auto, nil
	}
	if canonical, ok := aliases[n]; ok {
		return canonical, nil
	}
	if n == Auto || n == UTF8 {
		return n, nil
	}
	if _, ok := charmaps[n]; ok {
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Decode converts data to UTF-8 text using the named encoding.
// A leading UTF-8 byte order mark always selects UTF-8 and is stripped.
func Decode(data []byte, name string) (Result, error) {
	canonical, err := Normalize(name)
	if err != nil {
		return Result{}, err
	}

	if bytes.HasPrefix(data, utf8BOM) {
		return decodeUTF8(data, Result{BOM: true})
	}

	var res Result
	if canonical == Auto {
		canonical, res.Sniffed = detect(data)
	}

	if canonical == UTF8 {
		return decodeUTF8(data, res)
	}

	text, _, err := transform.Bytes(charmaps[canonical].NewDecoder(), data)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", canonical, err)
	}
	res.Text = string(text)
	res.Encoding = canonical
	return res, nil
}

// decodeUTF8 validates data and strips a leading byte order mark.
func decodeUTF8(data []byte, res Result) (Result, error) {
	if !utf8.Valid(data) {
		return Result{}, fmt.Errorf("%w at byte offset %d", ErrInvalidUTF8, invalidOffset(data))
	}
	text, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", UTF8, err)
	}
	res.Text = string(text)
	res.Encoding = UTF8
	return res, nil
}

// detect picks an encoding for data in auto mode and returns the syntax
// identifier it was derived from, or "" when none was found.
func detect(data []byte) (string, string) {
	if id := Sniff(data); id != "" {
		if enc, ok := syntaxIdentifiers[id]; ok {
			return enc, id
		}
	}
	if utf8.Valid(data) {
		return UTF8, ""
	}
	return ISO8859_1, ""
}

// Sniff returns the syntax identifier of the first UNB segment (e.g. "UNOC"),
// or "" if there is none near the start of data.
func Sniff(data []byte) string {
	window := data
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}

	idx := bytes.Index(window, []byte("UNB+"))
	if idx < 0 {
		return ""
	}
	rest := window[idx+len("UNB+"):]

	end := bytes.IndexAny(rest, ":+'")
	if end < 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(string(rest[:end])))
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
