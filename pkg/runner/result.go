package runner

// Stage names the step an input failed at.
type Stage string

// Processing stages, in order.
const (
	StageRead    Stage = "read"
	StageDecode  Stage = "decode"
	StageConvert Stage = "convert"
	StageWrite   Stage = "write"
)

// FileOutcome is what happened to one input.
type FileOutcome struct {
	// Path is the input path, or "-" for stdin.
	Path string

	// Rel is the path relative to its discovery root.
	Rel string

	// Encoding is the charset the input was decoded with.
	Encoding string

	// Sniffed is the UNB syntax identifier that chose Encoding, if any.
	Sniffed string

	// SHA256 is the hex hash of the raw input.
	SHA256 string

	// BytesIn is the size of the raw input.
	BytesIn int64

	// Segments is the number of segments converted.
	Segments int

	// Output is where the sink put the document.
	Output string

	// BytesOut is the size of the delivered document.
	BytesOut int

	// Written is true if the sink stored new content.
	Written bool

	// BackedUp is true if a previous output was saved first.
	BackedUp bool

	// Skipped is true if the input was never delivered because the run stopped.
	Skipped bool

	// Stage is set together with Error.
	Stage Stage

	// Error is why the input failed. Conversion errors keep their position.
	Error error

	// Excerpt is the part of the input line a conversion error points into.
	Excerpt string

	// ExcerptColumn is the 1-based rune column of the error within Excerpt.
	ExcerptColumn int
}

// Failed reports whether the input failed.
func (o *FileOutcome) Failed() bool {
	return o.Error != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the number of inputs found.
	FilesDiscovered int

	// FilesConverted is the number of inputs converted and delivered.
	FilesConverted int

	// FilesFailed is the number of inputs that failed at any stage.
	FilesFailed int

	// FilesSkipped is the number of inputs left undelivered after the run stopped.
	FilesSkipped int

	// FilesWritten is the number of documents the sink stored.
	FilesWritten int

	// SegmentsTotal is the number of segments across converted inputs.
	SegmentsTotal int

	// BytesIn is the raw input size across converted inputs.
	BytesIn int64

	// BytesOut is the XML size across converted inputs.
	BytesOut int64
}

// Result is the overall runner result.
type Result struct {
	// RunID identifies the run in logs and in the SQLite sink.
	RunID string

	// Files holds one outcome per discovered input, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any input failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// HasIOFailures reports whether any input failed while being read or written.
func (r *Result) HasIOFailures() bool {
	if r == nil {
		return false
	}
	for i := range r.Files {
		if st := r.Files[i].Stage; r.Files[i].Failed() && (st == StageRead || st == StageWrite) {
			return true
		}
	}
	return false
}

// Failures returns the failed outcomes in path order.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, f := range r.Files {
		if f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Failed():
		r.Stats.FilesFailed++
	case outcome.Skipped:
		r.Stats.FilesSkipped++
	default:
		r.Stats.FilesConverted++
		r.Stats.SegmentsTotal += outcome.Segments
		r.Stats.BytesIn += outcome.BytesIn
		r.Stats.BytesOut += int64(outcome.BytesOut)
		if outcome.Written {
			r.Stats.FilesWritten++
		}
	}
}
