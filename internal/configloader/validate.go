package configloader

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/edixml/pkg/config"
	"github.com/yaklabco/edixml/pkg/textenc"
)

// ValidationError represents a configuration problem.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "output.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the problem.
	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are problems that prevent a run.
	Errors []ValidationError

	// Warnings are settings that are accepted but have no effect.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.ContainsAny(ext, `/\`) {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	if cfg.Encoding != "" {
		if _, err := textenc.Normalize(cfg.Encoding); err != nil {
			result.fail("encoding", cfg.Encoding, "unknown encoding %q; must be one of: %s",
				cfg.Encoding, strings.Join(textenc.Names(), ", "))
		}
	}

	if cfg.OnError != "" && !cfg.OnError.IsValid() {
		result.fail("on_error", cfg.OnError, "invalid policy %q; must be one of: fail, skip", cfg.OnError)
	}

	if cfg.MaxFileSize < 0 {
		result.fail("max_file_size", cfg.MaxFileSize, "max_file_size must be >= 0 (0 means unlimited)")
	}

	validateOutput(cfg, result)

	if cfg.Backups.Mode != "" && cfg.Backups.Mode != "sidecar" && cfg.Backups.Mode != "none" {
		result.fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	return result
}

func validateOutput(cfg *config.Config, result *ValidationResult) {
	out := cfg.Output
	if out.Mode != "" && !out.Mode.IsValid() {
		result.fail("output.mode", out.Mode, "invalid output mode %q; must be one of: dir, stdout, sqlite", out.Mode)
		return
	}

	if out.Suffix != "" && (!strings.HasPrefix(out.Suffix, ".") || strings.ContainsAny(out.Suffix, `/\`)) {
		result.fail("output.suffix", out.Suffix, "suffix %q must start with a dot and contain no path separator", out.Suffix)
	}

	if out.Dir != "" && out.Mode != config.OutputModeDir && out.Mode != "" {
		result.warn("output.dir", out.Dir, "ignored unless output.mode is dir")
	}
	if out.Database != "" && out.Mode != config.OutputModeSQLite && out.Mode != "" {
		result.warn("output.database", out.Database, "ignored unless output.mode is sqlite")
	}
}
