package edifact

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrLexical indicates that no token could be produced at some input position.
	ErrLexical = errors.New("lexical error")

	// ErrGrammar indicates that the token stream does not match the interchange grammar.
	ErrGrammar = errors.New("grammar error")
)

// LexicalError reports input that cannot be classified into any token.
type LexicalError struct {
	// Pos is where the offending input starts.
	Pos Position

	// Found is the offending input text (a single character or a short excerpt).
	Found string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s at %s: %s (found %q)", ErrLexical, e.Pos, e.Message, e.Found)
}

// Unwrap allows errors.Is(err, ErrLexical).
func (e *LexicalError) Unwrap() error {
	return ErrLexical
}

// GrammarError reports a token that does not fit the production being parsed.
type GrammarError struct {
	// Pos is where the unexpected token starts.
	Pos Position

	// Production names the grammar rule that failed (interchange, segment, tag, element).
	Production string

	// Expected lists the token kinds that would have been accepted. Empty when the
	// failure is not a token mismatch (e.g. an illegal tag name).
	Expected []TokenKind

	// Found is the kind of the unexpected token.
	Found TokenKind

	// FoundText is the source text of the unexpected token.
	FoundText string

	// Message overrides the expected/found description when set.
	Message string
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	var detail string
	switch {
	case e.Message != "":
		detail = e.Message
	case len(e.Expected) > 0:
		names := make([]string, len(e.Expected))
		for i, kind := range e.Expected {
			names[i] = kind.String()
		}
		detail = fmt.Sprintf("expected %s, found %s", strings.Join(names, " or "), e.Found)
		if e.FoundText != "" {
			detail += fmt.Sprintf(" %q", e.FoundText)
		}
	default:
		detail = fmt.Sprintf("unexpected %s", e.Found)
	}
	return fmt.Sprintf("%s at %s in %s: %s", ErrGrammar, e.Pos, e.Production, detail)
}

// Unwrap allows errors.Is(err, ErrGrammar).
func (e *GrammarError) Unwrap() error {
	return ErrGrammar
}

// ErrorPosition extracts the input position from a lexical or grammar error.
func ErrorPosition(err error) (Position, bool) {
	var lexErr *LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}
	var gramErr *GrammarError
	if errors.As(err, &gramErr) {
		return gramErr.Pos, true
	}
	return Position{}, false
}
