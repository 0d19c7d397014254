package runner

import (
	"strings"

	"github.com/yaklabco/edixml/pkg/edifact"
)

// excerptRadius is how many runes are kept on each side of an error column.
const excerptRadius = 40

// excerpt returns the input line holding pos, cut to a window around the
// column, and the 1-based column of pos inside that window.
func excerpt(text string, pos edifact.Position) (string, int) {
	off := min(max(pos.Offset, 0), len(text))

	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := len(text)
	if i := strings.IndexByte(text[off:], '\n'); i >= 0 {
		end = off + i
	}
	line := []rune(strings.TrimSuffix(text[start:end], "\r"))

	col := max(pos.Column-1, 0)
	from := max(col-excerptRadius, 0)
	to := min(col+excerptRadius, len(line))
	if from > to {
		from = to
	}
	return string(line[from:to]), col - from + 1
}
