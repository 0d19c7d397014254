package edifact

import "fmt"

// TokenKind classifies a run of input characters.
type TokenKind uint8

// Token kinds produced by the tokenizer.
const (
	TokEOF                    TokenKind = iota // end of input, lookahead only
	TokSegmentTerminator                       // '
	TokElementSeparator                        // +
	TokCompositeItemSeparator                  // :
	TokReleaseCharacter                        // ?
	TokTextData                                // maximal run of data units
	TokUnaPreambleComma                        // UNA:+,? '
	TokUnaPreamblePeriod                       // UNA:+.? '
	TokWhitespace                              // one of ' ', '\r', '\n', '\t' at a segment boundary
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenKindNames = [...]string{
	TokEOF:                    "EOF",
	TokSegmentTerminator:      "SegmentTerminator",
	TokElementSeparator:       "ElementSeparator",
	TokCompositeItemSeparator: "CompositeItemSeparator",
	TokReleaseCharacter:       "ReleaseCharacter",
	TokTextData:               "TextData",
	TokUnaPreambleComma:       "UnaPreambleA",
	TokUnaPreamblePeriod:      "UnaPreambleB",
	TokWhitespace:             "Whitespace",
}

// String returns the kind name used in error messages.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// IsPreamble reports whether the kind is one of the two UNA service string advice literals.
func (k TokenKind) IsPreamble() bool {
	return k == TokUnaPreambleComma || k == TokUnaPreamblePeriod
}

// Delimiter characters of the fixed EDIFACT syntax this package supports.
const (
	SegmentTerminator      = '\''
	ElementSeparator       = '+'
	CompositeItemSeparator = ':'
	ReleaseCharacter       = '?'
)

// Service string advice literals recognized at the start of an interchange.
const (
	PreambleComma  = "UNA:+,? '"
	PreamblePeriod = "UNA:+.? '"
	preambleTag    = "UNA"
)

// Token is a classified span of the input. Start and End are byte offsets; End is exclusive.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

// Text returns the source text of the token.
func (t Token) Text(input string) string {
	if t.Start < 0 || t.End > len(input) || t.Start > t.End {
		return ""
	}
	return input[t.Start:t.End]
}

// Len returns the token length in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// isSeparator reports whether c is one of the four characters with syntactic meaning.
func isSeparator(c byte) bool {
	switch c {
	case SegmentTerminator, ElementSeparator, CompositeItemSeparator, ReleaseCharacter:
		return true
	default:
		return false
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}
