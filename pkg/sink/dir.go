package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/edixml/internal/logging"
	"github.com/yaklabco/edixml/pkg/fsutil"
)

// DefaultSuffix replaces the input extension in output file names.
const DefaultSuffix = ".xml"

// DirOptions configures a DirSink.
type DirOptions struct {
	// Dir is the output root. Empty writes each document next to its input.
	Dir string

	// Suffix replaces the input extension. Defaults to DefaultSuffix.
	Suffix string

	// Backups controls whether a replaced output is saved first.
	Backups fsutil.BackupConfig
}

// DirSink writes every document to its own file.
type DirSink struct {
	opts   DirOptions
	closed bool
}

// NewDir creates a DirSink.
func NewDir(opts DirOptions) *DirSink {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	return &DirSink{opts: opts}
}

// OutputPath returns where doc is written.
func (s *DirSink) OutputPath(doc *Document) string {
	if s.opts.Dir == "" {
		return replaceExt(doc.Source, s.opts.Suffix)
	}
	rel := doc.Rel
	if rel == "" {
		rel = filepath.Base(doc.Source)
	}
	return filepath.Join(s.opts.Dir, replaceExt(rel, s.opts.Suffix))
}

// Write implements Sink. An output that already holds identical bytes is left alone.
func (s *DirSink) Write(ctx context.Context, doc *Document) (Outcome, error) {
	if s.closed {
		return Outcome{}, ErrClosed
	}

	path := s.OutputPath(doc)
	if path == doc.Source {
		return Outcome{}, fmt.Errorf("output %s would overwrite its input", path)
	}

	logger := logging.FromContext(ctx)
	content := []byte(doc.XML)
	outcome := Outcome{Location: path, Bytes: len(content)}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		logger.Debug("output unchanged", logging.FieldOutput, path)
		return outcome, nil
	case err != nil && !os.IsNotExist(err):
		return Outcome{}, fmt.Errorf("read existing output: %w", err)
	}

	if err == nil {
		backedUp, err := fsutil.CreateBackup(ctx, path, s.opts.Backups)
		if err != nil {
			return Outcome{}, err
		}
		outcome.BackedUp = backedUp
	}

	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return Outcome{}, fmt.Errorf("write %s: %w", path, err)
	}

	outcome.Written = true
	logger.Debug("wrote output",
		logging.FieldOutput, path,
		logging.FieldBytes, len(content),
		logging.FieldBackup, outcome.BackedUp)
	return outcome, nil
}

// Close implements Sink.
func (s *DirSink) Close() error {
	s.closed = true
	return nil
}

func replaceExt(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
