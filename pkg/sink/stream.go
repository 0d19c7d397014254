package sink

import (
	"context"
	"fmt"
	"io"
)

// StreamSink writes documents to a stream, each followed by a newline.
type StreamSink struct {
	w      io.Writer
	name   string
	closed bool
}

// NewStream creates a StreamSink. name is reported as the outcome location.
func NewStream(w io.Writer, name string) *StreamSink {
	return &StreamSink{w: w, name: name}
}

// Write implements Sink.
func (s *StreamSink) Write(ctx context.Context, doc *Document) (Outcome, error) {
	if s.closed {
		return Outcome{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("write %s: %w", s.name, err)
	}

	n, err := io.WriteString(s.w, doc.XML+"\n")
	if err != nil {
		return Outcome{}, fmt.Errorf("write %s: %w", s.name, err)
	}
	return Outcome{Location: s.name, Written: true, Bytes: n}, nil
}

// Close implements Sink. The underlying writer is not closed.
func (s *StreamSink) Close() error {
	s.closed = true
	return nil
}
