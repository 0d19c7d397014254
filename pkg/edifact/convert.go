// Package edifact converts UN/EDIFACT interchanges into XML documents that mirror
// their segment, data element and composite item structure.
//
// The conversion is a single streaming pass: a pull tokenizer feeds a recursive
// descent parser that appends XML fragments to a buffer as each rule completes.
// Only the fixed delimiter set is supported (' + : ?), optionally announced by one
// of the service string advice headers "UNA:+,? '" or "UNA:+.? '".
//
// For the input
//
//	UNA:+,? 'NAD+MS+Name?+Co'
//
// Convert produces
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<edifact>
//		<NAD>
//			<element>
//				<value>MS</value>
//			</element>
//			<element>
//				<value>Name+Co</value>
//			</element>
//		</NAD>
//	</edifact>
//
// Errors are all-or-nothing: a malformed interchange yields a *LexicalError or
// *GrammarError and no output.
package edifact

// Options controls conversion behavior. The zero value is ready to use.
type Options struct {
	// AllowAnyTagName emits segment tags verbatim as XML element names.
	// By default a tag that is not a legal XML name fails the conversion.
	AllowAnyTagName bool

	// BufferSize is the initial capacity of the output buffer.
	// 0 derives it from the input length.
	BufferSize int
}

// Document is the result of a successful conversion.
type Document struct {
	// XML is the complete output document.
	XML string

	// Segments is the number of segments converted.
	Segments int

	// Elements is the number of data elements across all segments.
	Elements int

	// Values is the number of composite items across all data elements.
	Values int

	// Indexes is the number of tag index values across all segments.
	Indexes int

	// DecimalMark is ',' or '.' when the interchange starts with a service string
	// advice, and 0 otherwise. It does not affect the output.
	DecimalMark byte
}

// Converter turns interchanges into XML. It holds no per-conversion state, so one
// Converter may be used by several goroutines at once.
type Converter struct {
	opts Options
}

// New creates a Converter with the given options.
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// ConvertDocument converts one interchange and returns the document with its statistics.
// Each call uses a fresh parse context; the returned XML is not shared with the Converter.
func (c *Converter) ConvertDocument(input string) (*Document, error) {
	p := newParser(input, c.opts)
	if err := p.parseInterchange(); err != nil {
		return nil, err
	}

	doc := p.doc
	doc.XML = p.out.String()
	return &doc, nil
}

// Convert converts one interchange to an XML string.
func (c *Converter) Convert(input string) (string, error) {
	doc, err := c.ConvertDocument(input)
	if err != nil {
		return "", err
	}
	return doc.XML, nil
}

// Convert converts one interchange with default options.
func Convert(input string) (string, error) {
	return New(Options{}).Convert(input)
}
