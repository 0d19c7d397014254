package edifact

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position locates a byte offset in the input as a 1-based line and column.
// Columns count runes, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid returns true if the position has positive line and column values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("line %d col %d", p.Line, p.Column)
}

// PositionAt converts a byte offset in input to a Position.
// Offsets outside the input are clamped.
func PositionAt(input string, offset int) Position {
	return newLineIndex(input).position(offset)
}

// lineIndex maps offsets to lines. It is only built when an error needs a position.
type lineIndex struct {
	input      string
	lineStarts []int
}

func newLineIndex(input string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{input: input, lineStarts: starts}
}

func (li *lineIndex) position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.input) {
		offset = len(li.input)
	}

	// Index of the last line start <= offset.
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1

	start := li.lineStarts[line]
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(li.input[start:offset]) + 1,
	}
}
