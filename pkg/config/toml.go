package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileFormat is the syntax of a configuration file.
type FileFormat string

const (
	FileFormatYAML FileFormat = "yaml"
	FileFormatTOML FileFormat = "toml"
)

// FileFormatForPath picks the syntax from the file extension. Anything
// other than .toml is read as YAML.
func FileFormatForPath(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FileFormatTOML
	}
	return FileFormatYAML
}

// ToTOML serializes the persisted fields of the configuration to TOML.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromTOML parses a configuration from TOML bytes. Unknown keys are rejected.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("parse toml: unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Parse decodes data in the given syntax.
func Parse(data []byte, format FileFormat) (*Config, error) {
	if format == FileFormatTOML {
		return FromTOML(data)
	}
	return FromYAML(data)
}
