// Package sink delivers converted documents to their destination: a directory of
// XML files, a stream such as stdout, or a SQLite database.
package sink

import (
	"context"
	"errors"
)

// ErrClosed is returned when writing to a sink that has been closed.
var ErrClosed = errors.New("sink closed")

// Document is one converted interchange ready for delivery.
type Document struct {
	// Source is the input path as given, or "-" for stdin.
	Source string

	// Rel is the input path relative to the discovery root. Directory sinks
	// mirror it under their output directory.
	Rel string

	// SHA256 is the hex hash of the raw input bytes.
	SHA256 string

	// Encoding is the charset the input was decoded with.
	Encoding string

	// Segments is the number of segments converted.
	Segments int

	// XML is the output document.
	XML string
}

// Outcome describes what a sink did with a document.
type Outcome struct {
	// Location identifies where the document went: a file path, "stdout",
	// or a database row ID.
	Location string

	// Written is false when nothing had to be stored, e.g. an identical output already existed.
	Written bool

	// BackedUp is true when a previous output was saved before being replaced.
	BackedUp bool

	// Bytes is the number of bytes delivered.
	Bytes int
}

// Sink receives documents in input order from a single goroutine.
type Sink interface {
	// Write delivers one document.
	Write(ctx context.Context, doc *Document) (Outcome, error)

	// Close flushes and releases resources. Further writes return ErrClosed.
	Close() error
}

// Discard is a Sink that drops every document. It backs dry runs and check.
type Discard struct{}

// Write implements Sink.
func (Discard) Write(_ context.Context, doc *Document) (Outcome, error) {
	return Outcome{Location: "discard", Bytes: len(doc.XML)}, nil
}

// Close implements Sink.
func (Discard) Close() error { return nil }
