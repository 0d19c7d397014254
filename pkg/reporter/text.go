package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/edixml/internal/ui/pretty"
	"github.com/yaklabco/edixml/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No inputs found."))
		}
		return 0, nil
	}

	for i := range result.Files {
		file := result.Files[i]
		file.Path = r.opts.displayPath(file.Path)
		file.Output = r.opts.displayPath(file.Output)

		switch {
		case file.Failed():
			fmt.Fprint(r.bw, r.styles.FormatFailure(&file, r.opts.ShowContext))
		case !r.opts.Verbose:
		case file.Skipped:
			fmt.Fprintln(r.bw, r.styles.FilePath.Render(file.Path)+r.styles.Warning.Render(" skipped"))
		default:
			fmt.Fprint(r.bw, r.styles.FormatConverted(&file))
		}
	}

	if r.opts.ShowSummary {
		if result.HasFailures() || r.opts.Verbose {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return countFailures(result), nil
}
