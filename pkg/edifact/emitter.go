package edifact

import "strings"

// Fixed fragments of the output document.
const (
	xmlDeclaration = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	rootOpen       = "<edifact>\n"
	rootClose      = "</edifact>"
	elementOpen    = "\t\t<element>\n"
	elementClose   = "\t\t</element>\n"
	valueOpen      = "\t\t\t<value>"
	valueClose     = "</value>\n"
	indexOpen      = "\t\t<index>"
	indexClose     = "</index>\n"
)

// initialBufferSize is a typical interchange's XML size.
const initialBufferSize = 8192

//nolint:gochecknoglobals // Read-only replacer, safe for concurrent use.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five XML special characters with their predefined entities.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// ResolveEscapes replaces every release-character escape unit (?+ ?: ?' ??) with the
// character it protects. A release character that does not start an escape unit is kept.
func ResolveEscapes(s string) string {
	if strings.IndexByte(s, ReleaseCharacter) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ReleaseCharacter && i+1 < len(s) && isSeparator(s[i+1]) {
			i++
			c = s[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

// emitter appends XML fragments to a buffer owned by one conversion.
type emitter struct {
	buf strings.Builder
}

func newEmitter(sizeHint int) *emitter {
	e := &emitter{}
	if sizeHint < initialBufferSize {
		sizeHint = initialBufferSize
	}
	e.buf.Grow(sizeHint)
	return e
}

func (e *emitter) begin() {
	e.buf.WriteString(xmlDeclaration)
	e.buf.WriteString(rootOpen)
}

func (e *emitter) end() {
	e.buf.WriteString(rootClose)
}

// openSegment writes the segment start tag. The name is written as is.
func (e *emitter) openSegment(name string) {
	e.buf.WriteString("\t<")
	e.buf.WriteString(name)
	e.buf.WriteString(">\n")
}

func (e *emitter) closeSegment(name string) {
	e.buf.WriteString("\t</")
	e.buf.WriteString(name)
	e.buf.WriteString(">\n")
}

// index writes one already resolved tag index value.
func (e *emitter) index(value string) {
	e.buf.WriteString(indexOpen)
	e.buf.WriteString(EscapeXML(value))
	e.buf.WriteString(indexClose)
}

func (e *emitter) openElement() {
	e.buf.WriteString(elementOpen)
}

func (e *emitter) closeElement() {
	e.buf.WriteString(elementClose)
}

// value writes one composite item. raw is the item's source text, escapes included.
func (e *emitter) value(raw string) {
	e.buf.WriteString(valueOpen)
	e.buf.WriteString(EscapeXML(ResolveEscapes(raw)))
	e.buf.WriteString(valueClose)
}

// String hands the finished document to the caller.
func (e *emitter) String() string {
	return e.buf.String()
}
