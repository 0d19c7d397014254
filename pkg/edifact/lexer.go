package edifact

import (
	"strings"
	"unicode/utf8"
)

// lexMode tells the tokenizer how to treat whitespace characters.
type lexMode uint8

const (
	// modeSegment is used inside a segment, where whitespace is ordinary data.
	modeSegment lexMode = iota

	// modeBoundary is used between segments, where each whitespace character
	// is a separate Whitespace token that the parser discards.
	modeBoundary
)

// tokenizer classifies the input one token per request. It keeps no state
// besides the scan position; the parser owns the lookahead.
type tokenizer struct {
	input string
	pos   int
	lines *lineIndex
}

func newTokenizer(input string) *tokenizer {
	return &tokenizer{input: input}
}

// next produces the token starting at the current position and advances past it.
// At end of input it returns a zero-length TokEOF token.
func (t *tokenizer) next(mode lexMode) (Token, error) {
	start := t.pos
	if start >= len(t.input) {
		return Token{Kind: TokEOF, Start: start, End: start}, nil
	}

	if start == 0 && strings.HasPrefix(t.input, preambleTag) {
		return t.scanPreamble()
	}

	c := t.input[start]
	switch {
	case mode == modeBoundary && isWhitespace(c):
		return t.single(TokWhitespace), nil
	case c == SegmentTerminator:
		return t.single(TokSegmentTerminator), nil
	case c == ElementSeparator:
		return t.single(TokElementSeparator), nil
	case c == CompositeItemSeparator:
		return t.single(TokCompositeItemSeparator), nil
	default:
		// Text data, which may itself start with an escape unit.
		return t.scanText()
	}
}

func (t *tokenizer) single(kind TokenKind) Token {
	tok := Token{Kind: kind, Start: t.pos, End: t.pos + 1}
	t.pos++
	return tok
}

// scanPreamble matches one of the two supported service string advice literals.
// Any other UNA header declares delimiters this package does not support.
func (t *tokenizer) scanPreamble() (Token, error) {
	var kind TokenKind
	switch {
	case strings.HasPrefix(t.input, PreambleComma):
		kind = TokUnaPreambleComma
	case strings.HasPrefix(t.input, PreamblePeriod):
		kind = TokUnaPreamblePeriod
	default:
		found := t.input
		if len(found) > len(PreambleComma) {
			found = found[:len(PreambleComma)]
		}
		return Token{}, t.lexicalError(0, found, "unsupported service string advice")
	}

	tok := Token{Kind: kind, Start: 0, End: len(PreambleComma)}
	t.pos = tok.End
	return tok, nil
}

// scanText consumes the longest run of data units. A unit is either a character
// that is not a separator, or the release character followed by a separator.
func (t *tokenizer) scanText() (Token, error) {
	start := t.pos
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == ReleaseCharacter {
			if err := t.checkEscape(); err != nil {
				return Token{}, err
			}
			t.pos += 2
			continue
		}
		if isSeparator(c) {
			break
		}
		t.pos++
	}
	return Token{Kind: TokTextData, Start: start, End: t.pos}, nil
}

// checkEscape validates the one character of lookahead after a release character.
func (t *tokenizer) checkEscape() error {
	at := t.pos
	if at+1 >= len(t.input) {
		return t.lexicalError(at, string(ReleaseCharacter), "release character at end of input")
	}
	if isSeparator(t.input[at+1]) {
		return nil
	}
	r, size := utf8.DecodeRuneInString(t.input[at+1:])
	if r == utf8.RuneError && size <= 1 {
		return t.lexicalError(at, t.input[at:at+2], "release character must precede one of + : ' ?")
	}
	return t.lexicalError(at, t.input[at:at+1+size], "release character must precede one of + : ' ?")
}

func (t *tokenizer) position(offset int) Position {
	if t.lines == nil {
		t.lines = newLineIndex(t.input)
	}
	return t.lines.position(offset)
}

func (t *tokenizer) lexicalError(offset int, found, msg string) *LexicalError {
	return &LexicalError{
		Pos:     t.position(offset),
		Found:   found,
		Message: msg,
	}
}
