package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/yaklabco/edixml/internal/cli"
	"github.com/yaklabco/edixml/internal/configloader"
	"github.com/yaklabco/edixml/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "edixml" {
		t.Errorf("expected Use to be 'edixml', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"convert", "check", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestConvertCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	convertCmd, _, err := cmd.Find([]string{"convert"})
	if err != nil {
		t.Fatalf("convert command not found: %v", err)
	}

	expectedFlags := []string{
		"output-dir",
		"output",
		"database",
		"suffix",
		"encoding",
		"on-error",
		"jobs",
		"ignore",
		"include",
		"format",
		"dry-run",
		"no-strict-tags",
		"no-backups",
		"no-context",
		"verbose",
	}

	for _, flagName := range expectedFlags {
		if convertCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on convert command", flagName)
		}
	}
}

func TestCheckCommandHasNoOutputFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	for _, flagName := range []string{"output-dir", "output", "database", "dry-run", "no-backups"} {
		if checkCmd.Flags().Lookup(flagName) != nil {
			t.Errorf("check command should not have flag %q", flagName)
		}
	}
	for _, flagName := range []string{"encoding", "on-error", "jobs", "format"} {
		if checkCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on check command", flagName)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"edixml", "1.2.3", "abc123", "2024-01-01"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output %q missing %q", out.String(), want)
		}
	}
}

func TestConvertCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	convertCmd, _, err := cmd.Find([]string{"convert"})
	if err != nil {
		t.Fatalf("convert command not found: %v", err)
	}

	if err := convertCmd.Args(convertCmd, []string{"a.edi", "b.edifact", "inbox/", "-"}); err != nil {
		t.Errorf("convert command should accept arbitrary args, got error: %v", err)
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--help"}, []string{"Usage:", "Commands:", "convert", "check", "init", "--color"}},
		{[]string{"convert", "--help"}, []string{"Examples:", "Flags:", "--output-dir", "Global Flags:", "--config"}},
	}

	for _, tt := range tests {
		cmd := cli.NewRootCommand(testInfo())

		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(tt.args)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v failed: %v", tt.args, err)
		}

		for _, want := range tt.want {
			if !strings.Contains(out.String(), want) {
				t.Errorf("%v output missing %q:\n%s", tt.args, want, out.String())
			}
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"exit error", &cli.ExitError{Code: cli.ExitInvalidUsage, Err: errors.New("bad flag")}, cli.ExitInvalidUsage},
		{"wrapped exit error", fmt.Errorf("outer: %w", &cli.ExitError{Code: cli.ExitIOError}), cli.ExitIOError},
		{
			"validation error",
			fmt.Errorf("load configuration: %w", &configloader.ValidationError{Field: "on_error", Message: "bad"}),
			cli.ExitConfigError,
		},
		{"missing file", fmt.Errorf("stat x.edi: %w", fs.ErrNotExist), cli.ExitIOError},
		{"anything else", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	failed := func(stage runner.Stage) *runner.Result {
		return &runner.Result{
			Files: []runner.FileOutcome{
				{Path: "ok.edi"},
				{Path: "bad.edi", Stage: stage, Error: errors.New("failed")},
			},
			Stats: runner.Stats{FilesDiscovered: 2, FilesConverted: 1, FilesFailed: 1},
		}
	}

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{"nil result", nil, cli.ExitSuccess},
		{"all converted", &runner.Result{Stats: runner.Stats{FilesDiscovered: 1, FilesConverted: 1}}, cli.ExitSuccess},
		{"convert failure", failed(runner.StageConvert), cli.ExitConversionFailures},
		{"decode failure", failed(runner.StageDecode), cli.ExitConversionFailures},
		{"read failure", failed(runner.StageRead), cli.ExitIOError},
		{"write failure", failed(runner.StageWrite), cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCodeFromResult(tt.result); got != tt.want {
				t.Errorf("ExitCodeFromResult() = %d, want %d", got, tt.want)
			}
		})
	}
}
