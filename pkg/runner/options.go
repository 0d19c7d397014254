// Package runner converts many inputs concurrently and delivers the documents to a sink.
package runner

import (
	"io"

	"github.com/yaklabco/edixml/pkg/config"
)

// Options controls a multi-file conversion run.
type Options struct {
	// Paths are the user-specified files or directories to process. "-" reads stdin.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// when walking directories. Defaults to config.DefaultExtensions().
	// Files named explicitly are converted whatever their extension.
	Extensions []string

	// IncludeGlobs restrict walked files to those matching one of the patterns.
	IncludeGlobs []string

	// ExcludeGlobs skip files or directories. Config ignore and --ignore land here.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means one per CPU.
	Jobs int

	// Stdin is read for the "-" path. Defaults to os.Stdin.
	Stdin io.Reader

	// RunID tags the run in logs and results. Empty generates a UUID.
	RunID string

	// Config is the resolved configuration for this run. Nil uses config.NewConfig().
	Config *config.Config
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
