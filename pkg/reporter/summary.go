package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/edixml/internal/ui/pretty"
	"github.com/yaklabco/edixml/pkg/edifact"
	"github.com/yaklabco/edixml/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	fileColWidth      = 44
	stageColWidth     = 8
	locColWidth       = 10
	maxFilePathLength = 42
	maxMessageLength  = 60
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// SummaryReporter prints a table of failed inputs followed by run totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}

	if failures := result.Failures(); len(failures) > 0 {
		r.renderFailureTable(failures)
	}

	if _, err := fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats)); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return countFailures(result), nil
}

func (r *SummaryReporter) renderFailureTable(failures []runner.FileOutcome) {
	separator := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Failed Inputs"))
	fmt.Fprintln(r.out, separator)
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padRight("Stage", stageColWidth)),
		r.styles.TableHeader.Render(padRight("Location", locColWidth)),
		r.styles.TableHeader.Render("Reason"),
	)
	fmt.Fprintln(r.out, separator)

	for i := range failures {
		file := &failures[i]

		path := r.opts.displayPath(file.Path)
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		var loc string
		if pos, ok := edifact.ErrorPosition(file.Error); ok {
			loc = fmt.Sprintf("%d:%d", pos.Line, pos.Column)
		}

		reason := file.Error.Error()
		if len(reason) > maxMessageLength {
			reason = reason[:maxMessageLength-1] + "…"
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			r.styles.TableErrorRow.Render(padRight(path, fileColWidth)),
			padRight(string(file.Stage), stageColWidth),
			padRight(loc, locColWidth),
			reason,
		)
	}
}
