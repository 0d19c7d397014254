// Package config defines the configuration types for edixml.
// These are pure data structures; discovery and merging live in internal/configloader.
package config

// OnError selects what a run does when an input fails to convert.
type OnError string

const (
	// OnErrorFail stops the run at the first failed input.
	OnErrorFail OnError = "fail"
	// OnErrorSkip records the failure and continues with the next input.
	OnErrorSkip OnError = "skip"
)

// IsValid returns true if the policy is known.
func (o OnError) IsValid() bool {
	return o == OnErrorFail || o == OnErrorSkip
}

// OutputMode selects the sink converted documents are delivered to.
type OutputMode string

const (
	OutputModeDir    OutputMode = "dir"
	OutputModeStdout OutputMode = "stdout"
	OutputModeSQLite OutputMode = "sqlite"
)

// IsValid returns true if the mode is known.
func (m OutputMode) IsValid() bool {
	switch m {
	case OutputModeDir, OutputModeStdout, OutputModeSQLite:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how the run report is rendered.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// Defaults.
const (
	DefaultEncoding    = "auto"
	DefaultSuffix      = ".xml"
	DefaultDatabase    = "edixml.db"
	DefaultBackupMode  = "sidecar"
	DefaultMaxFileSize = 64 << 20
)

// DefaultExtensions returns the input extensions converted by default.
func DefaultExtensions() []string {
	return []string{".edi", ".edifact"}
}

// OutputConfig controls where converted documents go.
type OutputConfig struct {
	// Mode is the sink: dir, stdout or sqlite.
	Mode OutputMode `yaml:"mode" toml:"mode"`

	// Dir is the output root for dir mode. Empty writes next to each input.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`

	// Suffix replaces the input extension in dir mode.
	Suffix string `yaml:"suffix" toml:"suffix"`

	// Database is the SQLite file for sqlite mode.
	Database string `yaml:"database,omitempty" toml:"database,omitempty"`
}

// BackupsConfig controls backups of outputs that are about to be replaced.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure.
type Config struct {
	// Extensions are the input file extensions (with leading dot) picked up from directories.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Ignore contains glob patterns for inputs to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Encoding is the input charset name, or "auto".
	Encoding string `yaml:"encoding" toml:"encoding"`

	// OnError is the failure policy.
	OnError OnError `yaml:"on_error" toml:"on_error"`

	// StrictTagNames rejects segment tags that are not legal XML names.
	StrictTagNames *bool `yaml:"strict_tag_names,omitempty" toml:"strict_tag_names,omitempty"`

	// MaxFileSize limits input size in bytes. 0 means no limit.
	MaxFileSize int64 `yaml:"max_file_size,omitempty" toml:"max_file_size,omitempty"`

	// Output configures the sink.
	Output OutputConfig `yaml:"output" toml:"output"`

	// Backups configures output backups in dir mode.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"-" toml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// DryRun converts without delivering to the sink.
	DryRun bool `yaml:"-" toml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:     DefaultExtensions(),
		Encoding:       DefaultEncoding,
		OnError:        OnErrorSkip,
		StrictTagNames: Bool(true),
		MaxFileSize:    DefaultMaxFileSize,
		Output: OutputConfig{
			Mode:   OutputModeDir,
			Suffix: DefaultSuffix,
		},
		Backups: BackupsConfig{
			Enabled: Bool(true),
			Mode:    DefaultBackupMode,
		},
		Format: FormatText,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// StrictTagNamesEnabled reports whether tag names are validated. Unset means true.
func (c *Config) StrictTagNamesEnabled() bool {
	return c.StrictTagNames == nil || *c.StrictTagNames
}

// BackupsEnabled reports whether outputs are backed up before being replaced.
func (c *Config) BackupsEnabled() bool {
	if c.NoBackups || c.Backups.Mode == "none" {
		return false
	}
	return c.Backups.Enabled == nil || *c.Backups.Enabled
}

// DatabasePath returns the SQLite path, defaulting to DefaultDatabase.
func (c *Config) DatabasePath() string {
	if c.Output.Database == "" {
		return DefaultDatabase
	}
	return c.Output.Database
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = cloneStrings(c.Extensions)
	clone.Ignore = cloneStrings(c.Ignore)
	if c.StrictTagNames != nil {
		clone.StrictTagNames = Bool(*c.StrictTagNames)
	}
	if c.Backups.Enabled != nil {
		clone.Backups.Enabled = Bool(*c.Backups.Enabled)
	}
	return &clone
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
