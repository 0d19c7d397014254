package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/edixml/pkg/config"
)

// envVarPrefix is the prefix for all edixml environment variables.
const envVarPrefix = "EDIXML_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envBinding ties one environment variable to a config field.
type envBinding struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

// envBindings maps variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envBindings = map[string]envBinding{
	"EXTENSIONS": {"Comma-separated input extensions", func(cfg *config.Config, v string) error {
		cfg.Extensions = parseSliceValue(v)
		return nil
	}},
	"IGNORE": {"Comma-separated ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
	"ENCODING": {"Input charset or auto", func(cfg *config.Config, v string) error {
		cfg.Encoding = v
		return nil
	}},
	"ON_ERROR": {"Failure policy: fail or skip", func(cfg *config.Config, v string) error {
		cfg.OnError = config.OnError(v)
		return nil
	}},
	"STRICT_TAG_NAMES": {"Reject tags that are not XML names: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.StrictTagNames = config.Bool(b)
		return err
	}},
	"MAX_FILE_SIZE": {"Largest input in bytes (0 = unlimited)", func(cfg *config.Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		cfg.MaxFileSize = n
		return err
	}},
	"OUTPUT_MODE": {"Sink: dir, stdout or sqlite", func(cfg *config.Config, v string) error {
		cfg.Output.Mode = config.OutputMode(v)
		return nil
	}},
	"OUTPUT_DIR": {"Output directory for dir mode", func(cfg *config.Config, v string) error {
		cfg.Output.Dir = v
		return nil
	}},
	"OUTPUT_SUFFIX": {"Output file suffix for dir mode", func(cfg *config.Config, v string) error {
		cfg.Output.Suffix = v
		return nil
	}},
	"OUTPUT_DATABASE": {"SQLite database for sqlite mode", func(cfg *config.Config, v string) error {
		cfg.Output.Database = v
		return nil
	}},
	"BACKUPS_ENABLED": {"Back up replaced outputs: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.Backups.Enabled = config.Bool(b)
		return err
	}},
	"BACKUPS_MODE": {"Backup mode: sidecar or none", func(cfg *config.Config, v string) error {
		cfg.Backups.Mode = v
		return nil
	}},
	"JOBS": {"Number of parallel workers (0 = auto)", func(cfg *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		cfg.Jobs = n
		return err
	}},
	"FORMAT": {"Report format: text, json or summary", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	"DRY_RUN": {"Convert without writing: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.DryRun = b
		return err
	}},
	"NO_BACKUPS": {"Disable backups: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.NoBackups = b
		return err
	}},
}

// LoadFromEnvWith applies EDIXML_* environment overrides read through lookup.
// A nil lookup reads the process environment. Empty values are ignored.
func LoadFromEnvWith(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, suffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			continue
		}
		if err := envBindings[suffix].apply(cfg, value); err != nil {
			return &ValidationError{
				Field:   envVar,
				Value:   value,
				Message: fmt.Sprintf("invalid value %q: %v", value, err),
			}
		}
	}
	return nil
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envBindings))
	for suffix, binding := range envBindings {
		vars[envVarPrefix+suffix] = binding.description
	}
	return vars
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envBindings))
	for suffix := range envBindings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// parseSliceValue splits a comma-separated list, dropping empty items.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
