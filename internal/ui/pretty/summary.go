package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/edixml/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 converted, 1 failed, 1 skipped (5 files, 42 segments)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No inputs found") + "\n"
	}

	var parts []string
	converted := fmt.Sprintf("%d converted", stats.FilesConverted)
	if stats.FilesFailed == 0 && stats.FilesSkipped == 0 {
		converted = s.Success.Render(converted)
	}
	parts = append(parts, converted)

	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	detail := fmt.Sprintf(" (%d %s, %d %s",
		stats.FilesDiscovered, plural(stats.FilesDiscovered, "file", "files"),
		stats.SegmentsTotal, plural(stats.SegmentsTotal, "segment", "segments"))
	if stats.FilesWritten > 0 {
		detail += fmt.Sprintf(", %d written", stats.FilesWritten)
	}
	detail += ")"

	return strings.Join(parts, ", ") + s.Dim.Render(detail) + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files found", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Converted", s.SummaryValue.Render(strconv.Itoa(stats.FilesConverted)))
	if stats.FilesFailed > 0 {
		row("Failed", s.Failure.Render(strconv.Itoa(stats.FilesFailed)))
	}
	if stats.FilesSkipped > 0 {
		row("Skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesWritten > 0 {
		row("Written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}

	builder.WriteString("\n")
	row("Segments", s.SummaryValue.Render(strconv.Itoa(stats.SegmentsTotal)))
	row("Bytes in", s.SummaryValue.Render(strconv.FormatInt(stats.BytesIn, 10)))
	row("Bytes out", s.SummaryValue.Render(strconv.FormatInt(stats.BytesOut, 10)))
	builder.WriteString("\n")

	switch {
	case stats.FilesFailed > 0:
		builder.WriteString(s.Failure.Render("Conversion finished with failures"))
	case stats.FilesSkipped > 0:
		builder.WriteString(s.Warning.Render("Conversion stopped early"))
	default:
		builder.WriteString(s.Success.Render("Conversion succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
