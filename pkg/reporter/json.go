package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/edixml/pkg/edifact"
	"github.com/yaklabco/edixml/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	RunID   string           `json:"runId,omitempty"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single input's outcome.
type JSONFileResult struct {
	Path     string     `json:"path"`
	Output   string     `json:"output,omitempty"`
	Encoding string     `json:"encoding,omitempty"`
	Sniffed  string     `json:"sniffed,omitempty"`
	SHA256   string     `json:"sha256,omitempty"`
	Segments int        `json:"segments"`
	BytesIn  int64      `json:"bytesIn"`
	BytesOut int        `json:"bytesOut"`
	Written  bool       `json:"written"`
	BackedUp bool       `json:"backedUp,omitempty"`
	Skipped  bool       `json:"skipped,omitempty"`
	Error    *JSONError `json:"error,omitempty"`
}

// JSONError describes why an input failed.
type JSONError struct {
	Stage      string   `json:"stage"`
	Kind       string   `json:"kind,omitempty"`
	Message    string   `json:"message"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Production string   `json:"production,omitempty"`
	Expected   []string `json:"expected,omitempty"`
	Found      string   `json:"found,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int   `json:"filesDiscovered"`
	FilesConverted  int   `json:"filesConverted"`
	FilesFailed     int   `json:"filesFailed"`
	FilesSkipped    int   `json:"filesSkipped"`
	FilesWritten    int   `json:"filesWritten"`
	SegmentsTotal   int   `json:"segmentsTotal"`
	BytesIn         int64 `json:"bytesIn"`
	BytesOut        int64 `json:"bytesOut"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return countFailures(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.RunID = result.RunID
	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for i := range result.Files {
		file := &result.Files[i]
		output.Files = append(output.Files, JSONFileResult{
			Path:     r.opts.displayPath(file.Path),
			Output:   r.opts.displayPath(file.Output),
			Encoding: file.Encoding,
			Sniffed:  file.Sniffed,
			SHA256:   file.SHA256,
			Segments: file.Segments,
			BytesIn:  file.BytesIn,
			BytesOut: file.BytesOut,
			Written:  file.Written,
			BackedUp: file.BackedUp,
			Skipped:  file.Skipped,
			Error:    jsonError(file),
		})
	}

	s := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: s.FilesDiscovered,
		FilesConverted:  s.FilesConverted,
		FilesFailed:     s.FilesFailed,
		FilesSkipped:    s.FilesSkipped,
		FilesWritten:    s.FilesWritten,
		SegmentsTotal:   s.SegmentsTotal,
		BytesIn:         s.BytesIn,
		BytesOut:        s.BytesOut,
	}
	return output
}

func jsonError(file *runner.FileOutcome) *JSONError {
	if file.Error == nil {
		return nil
	}

	out := &JSONError{Stage: string(file.Stage), Message: file.Error.Error()}

	var lexErr *edifact.LexicalError
	var gramErr *edifact.GrammarError
	switch {
	case errors.As(file.Error, &lexErr):
		out.Kind = "lexical"
		out.Line, out.Column = lexErr.Pos.Line, lexErr.Pos.Column
		out.Found = lexErr.Found
	case errors.As(file.Error, &gramErr):
		out.Kind = "grammar"
		out.Line, out.Column = gramErr.Pos.Line, gramErr.Pos.Column
		out.Production = gramErr.Production
		out.Found = gramErr.FoundText
		for _, kind := range gramErr.Expected {
			out.Expected = append(out.Expected, kind.String())
		}
	}
	return out
}
