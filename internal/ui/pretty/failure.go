package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/edixml/pkg/edifact"
	"github.com/yaklabco/edixml/pkg/runner"
)

// FormatFailure formats one failed input for terminal output.
// Conversion errors are located as path:line:col.
func (s *Styles) FormatFailure(file *runner.FileOutcome, showContext bool) string {
	var builder strings.Builder

	location := s.FilePath.Render(file.Path)
	if pos, ok := edifact.ErrorPosition(file.Error); ok {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", pos.Line, pos.Column))
	}

	builder.WriteString(fmt.Sprintf("%s  %s  %s\n",
		location,
		s.Stage.Render(string(file.Stage)),
		s.Message.Render(file.Error.Error()),
	))

	if showContext && file.Excerpt != "" {
		builder.WriteString(s.FormatSourceContext(file.Excerpt, file.ExcerptColumn))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "    "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(indent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatConverted formats a converted input and where its document went.
func (s *Styles) FormatConverted(file *runner.FileOutcome) string {
	line := s.FilePath.Render(file.Path)
	if file.Output != "" {
		line += " " + s.Arrow.Render("->") + " " + s.Output.Render(file.Output)
	}

	var notes []string
	notes = append(notes, fmt.Sprintf("%d %s", file.Segments, plural(file.Segments, "segment", "segments")))
	if file.Encoding != "" {
		notes = append(notes, file.Encoding)
	}
	if file.BackedUp {
		notes = append(notes, "backup kept")
	}
	if file.Output != "" && !file.Written {
		notes = append(notes, "unchanged")
	}
	return line + s.Dim.Render(" ("+strings.Join(notes, ", ")+")") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
