package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/edixml/internal/logging"
	"github.com/yaklabco/edixml/pkg/config"
	"github.com/yaklabco/edixml/pkg/edifact"
	"github.com/yaklabco/edixml/pkg/fsutil"
	"github.com/yaklabco/edixml/pkg/sink"
	"github.com/yaklabco/edixml/pkg/textenc"
)

// ErrAborted is returned when on_error is fail and an input failed.
var ErrAborted = errors.New("run aborted")

// Runner converts inputs with a shared Converter and hands the documents to a Sink.
type Runner struct {
	// Converter converts decoded interchanges. Nil builds one from the run config.
	Converter *edifact.Converter

	// Sink receives documents in path order. Nil discards them.
	// The caller owns the sink and closes it after Run.
	Sink sink.Sink
}

// New creates a Runner.
func New(conv *edifact.Converter, out sink.Sink) *Runner {
	return &Runner{Converter: conv, Sink: out}
}

type job struct {
	index int
	input Input
}

type processed struct {
	index   int
	outcome FileOutcome
	doc     *sink.Document
}

// Run discovers the inputs named by opts and converts them concurrently.
//
// Workers read, decode and convert in parallel; documents reach the sink one at
// a time in path order. With on_error fail the first failure in path order stops
// the run: inputs before it are delivered, inputs after it are marked skipped,
// and the returned error wraps ErrAborted. With skip every input is attempted.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.effectiveConfig()
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := logging.FromContext(ctx).With(logging.FieldRunID, runID)
	ctx = logging.WithLogger(ctx, logger)

	inputs, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID: runID,
		Files: make([]FileOutcome, 0, len(inputs)),
	}
	result.Stats.FilesDiscovered = len(inputs)
	logger.Debug("discovered inputs", logging.FieldDiscovered, len(inputs))

	if len(inputs) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(inputs))

	w := &worker{
		conv:     r.converter(cfg),
		encoding: cfg.Encoding,
		maxSize:  cfg.MaxFileSize,
		stdin:    opts.Stdin,
	}
	d := &deliverer{
		sink:     r.sink(),
		failFast: cfg.OnError == config.OnErrorFail,
		logger:   logger,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	d.cancel = cancel

	group, groupCtx := errgroup.WithContext(runCtx)
	workCh := make(chan job)
	outCh := make(chan processed)

	group.Go(func() error {
		defer close(workCh)
		for i, in := range inputs {
			select {
			case <-groupCtx.Done():
				return nil
			case workCh <- job{index: i, input: in}:
			}
		}
		return nil
	})

	for range jobs {
		group.Go(func() error {
			w.run(groupCtx, workCh, outCh)
			return nil
		})
	}

	go func() {
		_ = group.Wait()
		close(outCh)
	}()

	// Workers finish out of order; deliver strictly by index.
	pending := make(map[int]processed, jobs)
	next := 0
	for p := range outCh {
		pending[p.index] = p
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			result.accumulate(d.deliver(runCtx, cur))
		}
	}

	// Anything left was cut off by cancellation.
	for i := next; i < len(inputs); i++ {
		outcome := FileOutcome{Path: inputs[i].Path, Rel: inputs[i].Rel}
		if p, ok := pending[i]; ok {
			outcome = p.outcome
		}
		result.accumulate(skipped(outcome))
	}

	logger.Info("run finished",
		logging.FieldConverted, result.Stats.FilesConverted,
		logging.FieldFailed, result.Stats.FilesFailed,
		logging.FieldWritten, result.Stats.FilesWritten)

	if d.abortErr != nil {
		return result, d.abortErr
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) converter(cfg *config.Config) *edifact.Converter {
	if r.Converter != nil {
		return r.Converter
	}
	return edifact.New(edifact.Options{AllowAnyTagName: !cfg.StrictTagNamesEnabled()})
}

func (r *Runner) sink() sink.Sink {
	if r.Sink != nil {
		return r.Sink
	}
	return sink.Discard{}
}

// worker turns inputs into documents.
type worker struct {
	conv     *edifact.Converter
	encoding string
	maxSize  int64
	stdin    io.Reader
}

func (w *worker) run(ctx context.Context, workCh <-chan job, outCh chan<- processed) {
	for j := range workCh {
		if ctx.Err() != nil {
			return
		}

		p := w.process(ctx, j.input)
		p.index = j.index

		select {
		case <-ctx.Done():
			return
		case outCh <- p:
		}
	}
}

func (w *worker) process(ctx context.Context, in Input) processed {
	outcome := FileOutcome{Path: in.Path, Rel: in.Rel}
	fail := func(stage Stage, err error) processed {
		outcome.Stage, outcome.Error = stage, err
		return processed{outcome: outcome}
	}

	data, info, err := w.read(ctx, in)
	if err != nil {
		return fail(StageRead, err)
	}
	outcome.SHA256 = info.HashHex()
	outcome.BytesIn = info.Size

	decoded, err := textenc.Decode(data, w.encoding)
	if err != nil {
		return fail(StageDecode, err)
	}
	outcome.Encoding = decoded.Encoding
	outcome.Sniffed = decoded.Sniffed

	doc, err := w.conv.ConvertDocument(decoded.Text)
	if err != nil {
		if pos, ok := edifact.ErrorPosition(err); ok {
			outcome.Excerpt, outcome.ExcerptColumn = excerpt(decoded.Text, pos)
		}
		return fail(StageConvert, err)
	}
	outcome.Segments = doc.Segments

	return processed{
		outcome: outcome,
		doc: &sink.Document{
			Source:   in.Path,
			Rel:      in.Rel,
			SHA256:   outcome.SHA256,
			Encoding: outcome.Encoding,
			Segments: doc.Segments,
			XML:      doc.XML,
		},
	}
}

func (w *worker) read(ctx context.Context, in Input) ([]byte, *fsutil.FileInfo, error) {
	if in.IsStdin() {
		stdin := w.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return fsutil.ReadAll(ctx, stdin, w.maxSize)
	}
	return fsutil.ReadFile(ctx, in.Path, w.maxSize)
}

// deliverer applies the error policy and feeds the sink. It runs on the collecting goroutine only.
type deliverer struct {
	sink     sink.Sink
	failFast bool
	logger   *log.Logger
	cancel   context.CancelFunc
	abortErr error
}

func (d *deliverer) deliver(ctx context.Context, p processed) FileOutcome {
	outcome := p.outcome
	if d.abortErr != nil || ctx.Err() != nil {
		return skipped(outcome)
	}

	if !outcome.Failed() {
		res, err := d.sink.Write(ctx, p.doc)
		if err != nil {
			outcome.Stage, outcome.Error = StageWrite, err
		} else {
			outcome.Output = res.Location
			outcome.BytesOut = res.Bytes
			outcome.Written = res.Written
			outcome.BackedUp = res.BackedUp
			d.logger.Debug("converted",
				logging.FieldPath, outcome.Path,
				logging.FieldEncoding, outcome.Encoding,
				logging.FieldSegments, outcome.Segments,
				logging.FieldOutput, res.Location)
			return outcome
		}
	}

	keyvals := []any{
		logging.FieldPath, outcome.Path,
		logging.FieldStage, outcome.Stage,
		logging.FieldError, outcome.Error,
	}
	if pos, ok := edifact.ErrorPosition(outcome.Error); ok {
		keyvals = append(keyvals, logging.FieldLine, pos.Line, logging.FieldColumn, pos.Column)
	}
	d.logger.Warn("input failed", keyvals...)

	if d.failFast {
		d.abortErr = fmt.Errorf("%w: %s: %w", ErrAborted, outcome.Path, outcome.Error)
		d.cancel()
	}
	return outcome
}

// skipped marks an outcome as never delivered.
func skipped(outcome FileOutcome) FileOutcome {
	outcome.Skipped = true
	outcome.Stage = ""
	outcome.Error = nil
	outcome.Output = ""
	outcome.Excerpt = ""
	outcome.ExcerptColumn = 0
	return outcome
}
