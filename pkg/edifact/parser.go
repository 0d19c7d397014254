package edifact

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Production names used in grammar errors.
const (
	prodInterchange = "interchange"
	prodSegment     = "segment"
	prodTag         = "tag"
	prodElement     = "element"
)

// itemFollow is the set of kinds that may follow an empty composite item or index value.
//
//nolint:gochecknoglobals // Read-only lookup table.
var itemFollow = []TokenKind{
	TokTextData,
	TokCompositeItemSeparator,
	TokElementSeparator,
	TokSegmentTerminator,
}

// parser is the per-call parse context. It owns the tokenizer cursor, the one-token
// lookahead, the tag index list and the output buffer; nothing outlives the call.
//
// Grammar:
//
//	interchange := preamble? segment*
//	segment     := tag element* SegmentTerminator whitespace*
//	tag         := tagName (CompositeItemSeparator indexValue)*
//	element     := ElementSeparator compositeItem (CompositeItemSeparator compositeItem)*
type parser struct {
	lex     *tokenizer
	look    Token
	out     *emitter
	indexes tagIndexList
	opts    Options
	doc     Document
}

func newParser(input string, opts Options) *parser {
	sizeHint := opts.BufferSize
	if sizeHint <= 0 {
		// Markup roughly triples the size of typical segment data.
		sizeHint = len(input) * 3 //nolint:mnd // growth estimate
	}
	return &parser{
		lex:  newTokenizer(input),
		out:  newEmitter(sizeHint),
		opts: opts,
	}
}

// advance replaces the lookahead with the next token scanned in the given mode.
func (p *parser) advance(mode lexMode) error {
	tok, err := p.lex.next(mode)
	if err != nil {
		return err
	}
	p.look = tok
	return nil
}

func (p *parser) text(tok Token) string {
	return tok.Text(p.lex.input)
}

func (p *parser) unexpected(production string, expected ...TokenKind) *GrammarError {
	return &GrammarError{
		Pos:        p.lex.position(p.look.Start),
		Production: production,
		Expected:   expected,
		Found:      p.look.Kind,
		FoundText:  p.text(p.look),
	}
}

// parseInterchange converts the whole input. On success the emitter holds the document.
func (p *parser) parseInterchange() error {
	if err := p.advance(modeBoundary); err != nil {
		return err
	}

	switch p.look.Kind {
	case TokUnaPreambleComma:
		p.doc.DecimalMark = ','
	case TokUnaPreamblePeriod:
		p.doc.DecimalMark = '.'
	}
	if p.look.Kind.IsPreamble() {
		if err := p.advance(modeBoundary); err != nil {
			return err
		}
	}
	if err := p.skipWhitespace(); err != nil {
		return err
	}

	p.out.begin()

	for p.look.Kind == TokTextData {
		if err := p.parseSegment(); err != nil {
			return err
		}
	}

	if p.look.Kind != TokEOF {
		return p.unexpected(prodInterchange, TokTextData, TokEOF)
	}

	p.out.end()
	return nil
}

// skipWhitespace discards whitespace tokens at a segment boundary.
func (p *parser) skipWhitespace() error {
	for p.look.Kind == TokWhitespace {
		if err := p.advance(modeBoundary); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseSegment() error {
	name, err := p.parseTag()
	if err != nil {
		return err
	}

	p.out.openSegment(name)
	p.indexes.drain(p.out.index)

	for p.look.Kind == TokElementSeparator {
		if err := p.parseElement(); err != nil {
			return err
		}
	}

	if p.look.Kind != TokSegmentTerminator {
		return p.unexpected(prodSegment, TokElementSeparator, TokSegmentTerminator)
	}
	if err := p.advance(modeBoundary); err != nil {
		return err
	}
	if err := p.skipWhitespace(); err != nil {
		return err
	}

	p.out.closeSegment(name)
	p.doc.Segments++
	return nil
}

// parseTag reads the tag name and its index values. The lookahead is TextData.
func (p *parser) parseTag() (string, error) {
	nameTok := p.look
	name := strings.TrimSpace(p.text(nameTok))
	if !p.opts.AllowAnyTagName {
		if err := checkTagName(name); err != nil {
			return "", &GrammarError{
				Pos:        p.lex.position(nameTok.Start),
				Production: prodTag,
				Found:      nameTok.Kind,
				FoundText:  p.text(nameTok),
				Message:    err.Error(),
			}
		}
	}

	p.indexes.reset()
	if err := p.advance(modeSegment); err != nil {
		return "", err
	}

	for p.look.Kind == TokCompositeItemSeparator {
		if err := p.advance(modeSegment); err != nil {
			return "", err
		}
		value, err := p.parseItemText(prodTag)
		if err != nil {
			return "", err
		}
		p.indexes.add(ResolveEscapes(value))
		p.doc.Indexes++
	}

	return name, nil
}

func (p *parser) parseElement() error {
	// Consume the element separator.
	if err := p.advance(modeSegment); err != nil {
		return err
	}

	p.out.openElement()
	for {
		value, err := p.parseItemText(prodElement)
		if err != nil {
			return err
		}
		p.out.value(value)
		p.doc.Values++

		if p.look.Kind != TokCompositeItemSeparator {
			break
		}
		if err := p.advance(modeSegment); err != nil {
			return err
		}
	}
	p.out.closeElement()
	p.doc.Elements++
	return nil
}

// parseItemText reads an optional TextData token. An absent item is the empty string
// and is only valid when followed by a separator or the segment terminator.
func (p *parser) parseItemText(production string) (string, error) {
	switch p.look.Kind {
	case TokTextData:
		raw := p.text(p.look)
		if err := p.advance(modeSegment); err != nil {
			return "", err
		}
		return raw, nil
	case TokCompositeItemSeparator, TokElementSeparator, TokSegmentTerminator:
		return "", nil
	default:
		return "", p.unexpected(production, itemFollow...)
	}
}

// checkTagName reports whether name can be used as an XML element name.
// Colons cannot occur since they separate tag indexes.
func checkTagName(name string) error {
	if name == "" {
		return errors.New("empty segment tag")
	}
	for i, r := range name {
		if r == utf8.RuneError {
			return fmt.Errorf("segment tag %q is not valid UTF-8", name)
		}
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return fmt.Errorf("segment tag %q is not a valid XML name: must start with a letter or underscore", name)
			}
			continue
		}
		if !isNameChar(r) {
			return fmt.Errorf("segment tag %q is not a valid XML name: illegal character %q", name, r)
		}
	}
	return nil
}

func isNameChar(r rune) bool {
	switch r {
	case '_', '-', '.', '·':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
