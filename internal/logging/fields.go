// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run fields.
	FieldRunID    = "run_id"
	FieldJobs     = "jobs"
	FieldDryRun   = "dry_run"
	FieldSink     = "sink"
	FieldOnError  = "on_error"
	FieldEncoding = "encoding"
	FieldSniffed  = "sniffed"

	// Document fields.
	FieldDocumentID = "document_id"
	FieldSegments   = "segments"
	FieldBytes      = "bytes"
	FieldBackup     = "backup"
	FieldStage      = "stage"
	FieldLine       = "line"
	FieldColumn     = "column"

	// Statistics fields.
	FieldDiscovered = "discovered"
	FieldConverted  = "converted"
	FieldFailed     = "failed"
	FieldWritten    = "written"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
