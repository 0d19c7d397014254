// Package configloader resolves the edixml configuration: XDG-style discovery,
// hierarchical merging, environment overrides and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/edixml/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is a config file given with --config.
	ExplicitPath string

	// IgnoreSystemConfig skips the system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips the user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips the project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips EDIXML_* environment variables.
	IgnoreEnv bool

	// LookupEnv reads environment variables. Nil uses os.LookupEnv.
	LookupEnv LookupFunc

	// CLIConfig contains configuration from CLI flags. It takes highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were loaded, lowest precedence first.
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (EDIXML_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.edixml.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/edixml/config.yaml)
//  6. System config (/etc/edixml/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()
	warned := make(map[string]bool)

	layers := []struct {
		path    string
		skip    bool
		explain string
	}{
		{paths.System, opts.IgnoreSystemConfig, "system"},
		{paths.User, opts.IgnoreUserConfig, "user"},
		{paths.Project, opts.IgnoreProjectConfig, "project"},
		{paths.Explicit, false, "explicit"},
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.explain, err)
		}

		validation := Validate(fileCfg)
		if !validation.Valid() {
			verr := validation.Errors[0]
			verr.FilePath = layer.path
			return nil, &verr
		}
		for _, w := range validation.Warnings {
			w.FilePath = layer.path
			warned[w.Field] = true
			result.Warnings = append(result.Warnings, w.Error())
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnvWith(cfg, opts.LookupEnv); err != nil {
			return nil, err
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		if !warned[w.Field] {
			result.Warnings = append(result.Warnings, w.Error())
		}
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads a YAML or TOML config file, chosen by extension.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.Parse(content, config.FileFormatForPath(path))
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	return cfg, nil
}
