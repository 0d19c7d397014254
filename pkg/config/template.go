package config

import "fmt"

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the file syntax. Defaults to YAML.
	Format FileFormat
}

const yamlTemplate = `# edixml configuration
# See: https://github.com/yaklabco/edixml

# Input file extensions picked up when a directory is given.
extensions:
  - .edi
  - .edifact

# Glob patterns for inputs to skip.
# ignore:
#   - "archive/**"
#   - "*.tmp.edi"

# Input charset: auto, utf-8, iso-8859-1 ... iso-8859-9, iso-8859-15, windows-1252.
# auto reads the UNB syntax identifier (UNOC, UNOY, ...).
encoding: auto

# What to do when an input fails to convert: fail stops the run, skip continues.
on_error: skip

# Reject segment tags that are not legal XML element names.
strict_tag_names: true

# Largest input accepted, in bytes (0 = unlimited).
max_file_size: 67108864

output:
  # dir writes one .xml per input, stdout streams documents,
  # sqlite stores them in a database.
  mode: dir
  # Output root for dir mode. Empty writes next to each input.
  # dir: out
  suffix: .xml
  # database: edixml.db

# Keep the previous output as <file>.edixml.bak when it is replaced.
backups:
  enabled: true
  mode: sidecar
`

const tomlTemplate = `# edixml configuration
# See: https://github.com/yaklabco/edixml

# Input file extensions picked up when a directory is given.
extensions = [".edi", ".edifact"]

# Glob patterns for inputs to skip.
# ignore = ["archive/**", "*.tmp.edi"]

# Input charset: auto, utf-8, iso-8859-1 ... iso-8859-9, iso-8859-15, windows-1252.
# auto reads the UNB syntax identifier (UNOC, UNOY, ...).
encoding = "auto"

# What to do when an input fails to convert: fail stops the run, skip continues.
on_error = "skip"

# Reject segment tags that are not legal XML element names.
strict_tag_names = true

# Largest input accepted, in bytes (0 = unlimited).
max_file_size = 67108864

[output]
# dir writes one .xml per input, stdout streams documents,
# sqlite stores them in a database.
mode = "dir"
# Output root for dir mode. Empty writes next to each input.
# dir = "out"
suffix = ".xml"
# database = "edixml.db"

# Keep the previous output as <file>.edixml.bak when it is replaced.
[backups]
enabled = true
mode = "sidecar"
`

// GenerateTemplate returns a commented configuration file holding the defaults.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", FileFormatYAML:
		return []byte(yamlTemplate), nil
	case FileFormatTOML:
		return []byte(tomlTemplate), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

// DefaultFileName returns the project config file name for a syntax.
func DefaultFileName(format FileFormat) string {
	if format == FileFormatTOML {
		return ".edixml.toml"
	}
	return ".edixml.yml"
}
