package edifact

import (
	"errors"
	"testing"
)

// scanAll tokenizes input in a fixed mode until EOF.
func scanAll(t *testing.T, input string, mode lexMode) []Token {
	t.Helper()

	lex := newTokenizer(input)
	var tokens []Token
	for {
		tok, err := lex.next(mode)
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		if tok.Kind == TokEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizer_Empty(t *testing.T) {
	lex := newTokenizer("")
	tok, err := lex.next(modeBoundary)
	if err != nil {
		t.Fatalf("next() error = %v", err)
	}
	if tok.Kind != TokEOF {
		t.Errorf("kind = %v, want EOF", tok.Kind)
	}
}

func TestTokenizer_Separators(t *testing.T) {
	tokens := scanAll(t, "A+B:C'", modeSegment)

	want := []TokenKind{
		TokTextData, TokElementSeparator, TokTextData,
		TokCompositeItemSeparator, TokTextData, TokSegmentTerminator,
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizer_TextDataEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"escaped plus", "Name?+Co+", "Name?+Co"},
		{"escaped colon", "a?:b:", "a?:b"},
		{"escaped apostrophe", "it?'s'", "it?'s"},
		{"escaped release", "50??+", "50??"},
		{"leading escape", "?+x'", "?+x"},
		{"only escapes", "????", "????"},
		{"inner whitespace", "two words+", "two words"},
		{"multibyte", "Grüße+", "Grüße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTokenizer(tt.input)
			tok, err := lex.next(modeSegment)
			if err != nil {
				t.Fatalf("next() error = %v", err)
			}
			if tok.Kind != TokTextData {
				t.Fatalf("kind = %v, want TextData", tok.Kind)
			}
			if got := tok.Text(tt.input); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizer_ReleaseCharacterErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFound string
		wantCol   int
	}{
		{"trailing release", "ABC?", "?", 4},
		{"release before letter", "AB?C'", "?C", 3},
		{"release before space", "?  ", "? ", 1},
		{"release before multibyte", "x?é", "?é", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newTokenizer(tt.input)
			_, err := lex.next(modeSegment)
			if err == nil {
				t.Fatal("expected lexical error")
			}
			if !errors.Is(err, ErrLexical) {
				t.Fatalf("error %v is not ErrLexical", err)
			}

			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error %T is not *LexicalError", err)
			}
			if lexErr.Found != tt.wantFound {
				t.Errorf("Found = %q, want %q", lexErr.Found, tt.wantFound)
			}
			if lexErr.Pos.Line != 1 || lexErr.Pos.Column != tt.wantCol {
				t.Errorf("Pos = %v, want line 1 col %d", lexErr.Pos, tt.wantCol)
			}
		})
	}
}

func TestTokenizer_Preamble(t *testing.T) {
	tests := []struct {
		input string
		want  TokenKind
	}{
		{"UNA:+,? 'UNB+X'", TokUnaPreambleComma},
		{"UNA:+.? 'UNB+X'", TokUnaPreamblePeriod},
		{"UNA:+.? '", TokUnaPreamblePeriod},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lex := newTokenizer(tt.input)
			tok, err := lex.next(modeBoundary)
			if err != nil {
				t.Fatalf("next() error = %v", err)
			}
			if tok.Kind != tt.want {
				t.Errorf("kind = %v, want %v", tok.Kind, tt.want)
			}
			if tok.Len() != len(PreambleComma) {
				t.Errorf("len = %d, want %d", tok.Len(), len(PreambleComma))
			}
		})
	}
}

func TestTokenizer_UnsupportedPreamble(t *testing.T) {
	inputs := []string{
		"UNA:+.?*'UNB+X'",
		"UNA|^.? 'UNB+X'",
		"UNA:+",
		"UNB+X'",
	}

	for i, input := range inputs {
		lex := newTokenizer(input)
		_, err := lex.next(modeBoundary)
		if i == len(inputs)-1 {
			// UNB is an ordinary segment tag.
			if err != nil {
				t.Errorf("%q: unexpected error %v", input, err)
			}
			continue
		}
		if !errors.Is(err, ErrLexical) {
			t.Errorf("%q: error = %v, want ErrLexical", input, err)
		}
	}
}

func TestTokenizer_PreambleOnlyAtStart(t *testing.T) {
	input := "X'UNA:+.? '"
	lex := newTokenizer(input)

	for _, mode := range []lexMode{modeSegment, modeSegment} {
		if _, err := lex.next(mode); err != nil {
			t.Fatalf("next() error = %v", err)
		}
	}
	tok, err := lex.next(modeBoundary)
	if err != nil {
		t.Fatalf("next() error = %v", err)
	}
	if tok.Kind != TokTextData || tok.Text(input) != "UNA" {
		t.Errorf("got %v %q, want TextData \"UNA\"", tok.Kind, tok.Text(input))
	}
}

func TestTokenizer_WhitespaceModes(t *testing.T) {
	input := " \r\n\tA"

	boundary := scanAll(t, input, modeBoundary)
	want := []TokenKind{TokWhitespace, TokWhitespace, TokWhitespace, TokWhitespace, TokTextData}
	got := kinds(boundary)
	if len(got) != len(want) {
		t.Fatalf("boundary mode: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("boundary token[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	segment := scanAll(t, input, modeSegment)
	if len(segment) != 1 || segment[0].Kind != TokTextData {
		t.Fatalf("segment mode: got %v, want one TextData", kinds(segment))
	}
	if segment[0].Text(input) != input {
		t.Errorf("segment mode text = %q, want %q", segment[0].Text(input), input)
	}
}

func TestTokenKind_String(t *testing.T) {
	if got := TokSegmentTerminator.String(); got != "SegmentTerminator" {
		t.Errorf("String() = %q", got)
	}
	if got := TokenKind(200).String(); got != "TokenKind(200)" {
		t.Errorf("String() = %q", got)
	}
}

func TestPositionAt(t *testing.T) {
	input := "UNB+A'\nNAD+ä?X'"

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{6, 1, 7},
		{7, 2, 1},
		{11, 2, 5},
		{13, 2, 6}, // after the two-byte ä
		{-5, 1, 1},
		{1000, 2, 9},
	}

	for _, tt := range tests {
		pos := PositionAt(input, tt.offset)
		if pos.Line != tt.wantLine || pos.Column != tt.wantCol {
			t.Errorf("PositionAt(%d) = %v, want line %d col %d", tt.offset, pos, tt.wantLine, tt.wantCol)
		}
	}
}
