package configloader

import "github.com/yaklabco/edixml/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// Zero scalars and nil slices or pointers in override leave base unchanged;
// a non-nil slice replaces the base slice entirely.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	if override.OnError != "" {
		result.OnError = override.OnError
	}
	if override.StrictTagNames != nil {
		result.StrictTagNames = config.Bool(*override.StrictTagNames)
	}
	if override.MaxFileSize != 0 {
		result.MaxFileSize = override.MaxFileSize
	}

	if override.Output.Mode != "" {
		result.Output.Mode = override.Output.Mode
	}
	if override.Output.Dir != "" {
		result.Output.Dir = override.Output.Dir
	}
	if override.Output.Suffix != "" {
		result.Output.Suffix = override.Output.Suffix
	}
	if override.Output.Database != "" {
		result.Output.Database = override.Output.Database
	}

	if override.Backups.Enabled != nil {
		result.Backups.Enabled = config.Bool(*override.Backups.Enabled)
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	// CLI-only fields. Booleans can only be switched on from a higher layer.
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	return result
}
