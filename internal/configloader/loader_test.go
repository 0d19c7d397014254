package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/edixml/pkg/config"
)

// isolated returns options that only see files under dir and the given env.
func isolated(dir string, env map[string]string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(tmpDir, nil))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".edixml.yml"), `
encoding: iso-8859-1
on_error: fail
strict_tag_names: false
output:
  mode: sqlite
  database: out/run.db
`)

	result, err := Load(context.Background(), isolated(tmpDir, nil))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "iso-8859-1", cfg.Encoding)
	assert.Equal(t, config.OnErrorFail, cfg.OnError)
	assert.False(t, cfg.StrictTagNamesEnabled())
	assert.Equal(t, config.OutputModeSQLite, cfg.Output.Mode)
	assert.Equal(t, "out/run.db", cfg.DatabasePath())

	// Untouched fields keep their defaults.
	assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
	assert.Equal(t, config.DefaultSuffix, cfg.Output.Suffix)
	assert.True(t, cfg.BackupsEnabled())

	assert.Equal(t, []string{filepath.Join(tmpDir, ".edixml.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigTOML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, "edixml.toml"), `
extensions = [".edi", ".txt"]

[backups]
enabled = false
`)

	result, err := Load(context.Background(), isolated(tmpDir, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{".edi", ".txt"}, result.Config.Extensions)
	assert.False(t, result.Config.BackupsEnabled())
}

func TestLoad_UpwardSearch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".edixml.yaml"), "encoding: windows-1252\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested, nil))
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", result.Config.Encoding)
	assert.Equal(t, filepath.Join(root, ".edixml.yaml"), result.Paths.Project)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".edixml.yml"), "encoding: utf-8\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, "edixml.toml"), "")
	writeFile(t, filepath.Join(dir, ".edixml.yml"), "")

	path, err := FindProjectConfig(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".edixml.yml"), path)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".edixml.yml"), "encoding: iso-8859-1\non_error: fail\n")
	explicit := filepath.Join(tmpDir, "ci", "edixml.toml")
	writeFile(t, explicit, "encoding = \"utf-8\"\n")

	opts := isolated(tmpDir, nil)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", result.Config.Encoding)
	assert.Equal(t, config.OnErrorFail, result.Config.OnError)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".edixml.yml"), "encoding: iso-8859-1\non_error: fail\noutput:\n  suffix: .edi.xml\n")

	opts := isolated(tmpDir, map[string]string{
		"EDIXML_ENCODING": "iso-8859-2",
		"EDIXML_ON_ERROR": "skip",
		"EDIXML_JOBS":     "3",
	})
	opts.CLIConfig = &config.Config{Encoding: "utf-8", DryRun: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "utf-8", cfg.Encoding, "CLI beats env")
	assert.Equal(t, config.OnErrorSkip, cfg.OnError, "env beats file")
	assert.Equal(t, ".edi.xml", cfg.Output.Suffix, "file beats default")
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.DryRun)
}

func TestLoad_IgnoreEnv(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := isolated(tmpDir, map[string]string{"EDIXML_ENCODING": "bogus"})
	opts.IgnoreProjectConfig = true
	opts.IgnoreEnv = true

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEncoding, result.Config.Encoding)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		file      string
		content   string
		wantField string
		wantText  string
	}{
		{
			name:     "malformed yaml",
			file:     ".edixml.yml",
			content:  "encoding: [unterminated\n",
			wantText: ".edixml.yml",
		},
		{
			name:     "unknown key",
			file:     ".edixml.yml",
			content:  "flavor: gfm\n",
			wantText: "flavor",
		},
		{
			name:      "unknown encoding",
			file:      ".edixml.yml",
			content:   "encoding: ebcdic\n",
			wantField: "encoding",
		},
		{
			name:      "bad policy",
			file:      ".edixml.toml",
			content:   "on_error = \"retry\"\n",
			wantField: "on_error",
		},
		{
			name:      "bad extension",
			file:      ".edixml.yml",
			content:   "extensions: [edi]\n",
			wantField: "extensions[0]",
		},
		{
			name:      "bad output mode",
			file:      ".edixml.yml",
			content:   "output:\n  mode: s3\n",
			wantField: "output.mode",
		},
		{
			name:      "bad suffix",
			file:      ".edixml.yml",
			content:   "output:\n  suffix: xml\n",
			wantField: "output.suffix",
		},
		{
			name:      "bad backup mode",
			file:      ".edixml.yml",
			content:   "backups:\n  mode: git\n",
			wantField: "backups.mode",
		},
		{
			name:      "bad ignore glob",
			file:      ".edixml.yml",
			content:   "ignore: [\"[\"]\n",
			wantField: "ignore[0]",
		},
		{
			name:      "negative max size",
			file:      ".edixml.yml",
			content:   "max_file_size: -1\n",
			wantField: "max_file_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
			path := filepath.Join(tmpDir, tt.file)
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolated(tmpDir, nil))
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, path, verr.FilePath)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

func TestLoad_EnvError(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := isolated(tmpDir, map[string]string{"EDIXML_JOBS": "many"})
	opts.IgnoreProjectConfig = true

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "EDIXML_JOBS", verr.Field)
}

func TestLoad_CLIValidation(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := isolated(tmpDir, nil)
	opts.IgnoreProjectConfig = true
	opts.CLIConfig = &config.Config{Format: "xml"}

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Field)
	assert.Empty(t, verr.FilePath)
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".edixml.yml"), "output:\n  mode: stdout\n  dir: out\n")

	result, err := Load(context.Background(), isolated(tmpDir, nil))
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.True(t, strings.Contains(result.Warnings[0], "output.dir"))
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir(), nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadFromEnvWith(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"EDIXML_EXTENSIONS":       ".edi, .x12 ,",
		"EDIXML_IGNORE":           "tmp/*",
		"EDIXML_STRICT_TAG_NAMES": "false",
		"EDIXML_MAX_FILE_SIZE":    "1024",
		"EDIXML_OUTPUT_MODE":      "stdout",
		"EDIXML_OUTPUT_DIR":       "out",
		"EDIXML_OUTPUT_SUFFIX":    ".edi.xml",
		"EDIXML_OUTPUT_DATABASE":  "x.db",
		"EDIXML_BACKUPS_ENABLED":  "false",
		"EDIXML_BACKUPS_MODE":     "none",
		"EDIXML_FORMAT":           "json",
		"EDIXML_DRY_RUN":          "true",
		"EDIXML_NO_BACKUPS":       "1",
		"EDIXML_ENCODING":         "  ",
	}
	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnvWith(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, []string{".edi", ".x12"}, cfg.Extensions)
	assert.Equal(t, []string{"tmp/*"}, cfg.Ignore)
	assert.False(t, cfg.StrictTagNamesEnabled())
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, config.OutputModeStdout, cfg.Output.Mode)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, ".edi.xml", cfg.Output.Suffix)
	assert.Equal(t, "x.db", cfg.Output.Database)
	assert.False(t, *cfg.Backups.Enabled)
	assert.Equal(t, "none", cfg.Backups.Mode)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.NoBackups)
	assert.Equal(t, config.DefaultEncoding, cfg.Encoding, "blank values are ignored")
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Len(t, vars, len(envBindings))
	for name, desc := range vars {
		assert.True(t, strings.HasPrefix(name, envVarPrefix), name)
		assert.NotEmpty(t, desc, name)
	}
	assert.Contains(t, vars, "EDIXML_ON_ERROR")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{
		Ignore:         []string{"*.bak"},
		StrictTagNames: config.Bool(false),
		Output:         config.OutputConfig{Dir: "out"},
		Backups:        config.BackupsConfig{Enabled: config.Bool(false)},
	}

	got := merge(base, override)
	assert.Equal(t, []string{"*.bak"}, got.Ignore)
	assert.False(t, got.StrictTagNamesEnabled())
	assert.Equal(t, "out", got.Output.Dir)
	assert.Equal(t, config.OutputModeDir, got.Output.Mode)
	assert.False(t, got.BackupsEnabled())

	// Base is not modified.
	assert.True(t, base.StrictTagNamesEnabled())
	assert.True(t, base.BackupsEnabled())

	// An unset pointer does not reset base.
	got = merge(got, &config.Config{})
	assert.False(t, got.StrictTagNamesEnabled())

	assert.Same(t, base, merge(base, nil))
	assert.Same(t, override, merge(nil, override))
}
