package edifact_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/yaklabco/edixml/pkg/edifact"
)

// FuzzConvert fuzzes the converter with random interchanges.
func FuzzConvert(f *testing.F) {
	seeds := []string{
		"",
		"UNA:+.? '",
		"UNA:+,? 'NAD+MS+ABC123::9+Name?+Co'",
		"UNB+UNOA:1+SENDER+RECEIVER+240131:1200+1'UNZ+1+1'",
		"DTM:137+20240131:102'",
		"TAG+A++B'",
		"FTX+a?+b?:c?'d??e'",
		"FTX+R&D <x>'",
		"NAD+MS",
		"NAD+MS?",
		"UNA:+.?*'",
		"A+1'\r\nB+2'\n",
		"'",
		"+:'",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		doc, err := edifact.New(edifact.Options{}).ConvertDocument(input)
		if err != nil {
			// Every failure is one of the two categories.
			if !errors.Is(err, edifact.ErrLexical) && !errors.Is(err, edifact.ErrGrammar) {
				t.Fatalf("uncategorized error: %v", err)
			}
			if _, ok := edifact.ErrorPosition(err); !ok {
				t.Fatalf("error without position: %v", err)
			}
			return
		}

		if !strings.HasPrefix(doc.XML, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<edifact>\n") {
			t.Fatalf("missing document header: %q", doc.XML)
		}
		if !strings.HasSuffix(doc.XML, "</edifact>") {
			t.Fatalf("missing root close: %q", doc.XML)
		}

		// Markup is never produced by data, so fragment counts match the statistics.
		if got := strings.Count(doc.XML, "\t\t\t<value>"); got != doc.Values {
			t.Errorf("value count = %d, stats say %d", got, doc.Values)
		}
		if got := strings.Count(doc.XML, "\t\t<element>\n"); got != doc.Elements {
			t.Errorf("element count = %d, stats say %d", got, doc.Elements)
		}
		if got := strings.Count(doc.XML, "\t\t<index>"); got != doc.Indexes {
			t.Errorf("index count = %d, stats say %d", got, doc.Indexes)
		}

		// The XML parser rejects control characters, so only check printable ASCII input.
		if !printableASCII(input) {
			return
		}
		xmlDoc := etree.NewDocument()
		if err := xmlDoc.ReadFromString(doc.XML); err != nil {
			t.Fatalf("output is not well-formed: %v\n%s", err, doc.XML)
		}
		if got := len(xmlDoc.Root().ChildElements()); got != doc.Segments {
			t.Errorf("segment count = %d, stats say %d", got, doc.Segments)
		}
	})
}

// FuzzConvertDeterministic checks that repeated conversions agree.
func FuzzConvertDeterministic(f *testing.F) {
	f.Add("UNA:+,? 'NAD+MS+ABC123::9+Name?+Co'")
	f.Add("DTM:1:2+X'")
	f.Add("NAD+MS?")

	conv := edifact.New(edifact.Options{})
	f.Fuzz(func(t *testing.T, input string) {
		first, err1 := conv.Convert(input)
		second, err2 := conv.Convert(input)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("error mismatch: %v vs %v", err1, err2)
		}
		if err1 != nil && err1.Error() != err2.Error() {
			t.Fatalf("error text differs: %q vs %q", err1, err2)
		}
		if first != second {
			t.Fatal("output differs between runs")
		}
	})
}

func printableASCII(s string) bool {
	for i := range len(s) {
		c := s[i]
		if c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
