package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yaklabco/edixml/internal/configloader"
	"github.com/yaklabco/edixml/internal/logging"
	"github.com/yaklabco/edixml/pkg/config"
	"github.com/yaklabco/edixml/pkg/fsutil"
	"github.com/yaklabco/edixml/pkg/reporter"
	"github.com/yaklabco/edixml/pkg/runner"
	"github.com/yaklabco/edixml/pkg/sink"
)

// runFlags are shared by convert and check.
type runFlags struct {
	encoding       string
	onError        string
	jobs           int
	ignore         []string
	include        []string
	followSymlinks bool
	format         string
	noStrictTags   bool
	noContext      bool
	verbose        bool
	compact        bool

	// convert only
	outputDir string
	output    string
	database  string
	suffix    string
	dryRun    bool
	noBackups bool
}

// runMode distinguishes convert from check.
type runMode int

const (
	modeConvert runMode = iota
	modeCheck
)

func newConvertCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert EDIFACT files to XML",
		Long:  convertLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, args, flags, modeConvert)
		},
	}

	addRunFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "write XML files under this directory (default: next to each input)")
	cmd.Flags().StringVar(&flags.output, "output", "", "output sink: dir, stdout, sqlite")
	cmd.Flags().StringVar(&flags.database, "database", "", "SQLite database for --output sqlite")
	cmd.Flags().StringVar(&flags.suffix, "suffix", "", "output file suffix (default .xml)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "convert but do not write anything")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "do not keep a backup of replaced outputs")

	return cmd
}

const convertLongDescription = `Convert UN/EDIFACT interchanges to XML.

By default, converts all .edi and .edifact files in the current directory
and subdirectories. Files named explicitly are converted whatever their
extension. "-" reads one interchange from stdin and writes the XML to stdout.

Examples:
  edixml convert                          # Convert the current directory
  edixml convert orders/ -o xml/          # Mirror orders/ into xml/
  edixml convert invoice.edi              # Write invoice.xml next to it
  edixml convert - < invoice.edi          # Stream to stdout
  edixml convert --output sqlite in/      # Store documents in edixml.db
  edixml convert --on-error fail in/      # Stop at the first bad input
  edixml convert --format json in/        # Machine-readable report`

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVar(&flags.encoding, "encoding", "", "input charset (default auto: read the UNB syntax identifier)")
	cmd.Flags().StringVar(&flags.onError, "on-error", "", "failure policy: skip, fail")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = one per CPU)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of inputs to skip")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only convert walked files matching these globs")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, json, summary")
	cmd.Flags().BoolVar(&flags.noStrictTags, "no-strict-tags", false, "accept segment tags that are not XML names")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide the offending input line under errors")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every input, not only failures")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minified JSON report")
}

// cliConfig builds the configuration layer contributed by flags. Only flags
// the user set are filled in, so lower layers keep their values otherwise.
func cliConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("encoding") {
		cfg.Encoding = flags.encoding
	}
	if changed("on-error") {
		policy := config.OnError(flags.onError)
		if !policy.IsValid() {
			return nil, usageError(fmt.Errorf("invalid --on-error %q: must be skip or fail", flags.onError))
		}
		cfg.OnError = policy
	}
	if changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return nil, usageError(err)
		}
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("jobs") {
		if flags.jobs < 0 {
			return nil, usageError(fmt.Errorf("invalid --jobs %d: must not be negative", flags.jobs))
		}
		cfg.Jobs = flags.jobs
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if flags.noStrictTags {
		cfg.StrictTagNames = config.Bool(false)
	}

	if changed("output") {
		mode := config.OutputMode(flags.output)
		if !mode.IsValid() {
			return nil, usageError(fmt.Errorf("invalid --output %q: must be dir, stdout or sqlite", flags.output))
		}
		cfg.Output.Mode = mode
	}
	if changed("output-dir") {
		cfg.Output.Dir = flags.outputDir
	}
	if changed("suffix") {
		cfg.Output.Suffix = flags.suffix
	}
	if changed("database") {
		cfg.Output.Database = flags.database
	}
	cfg.DryRun = flags.dryRun
	cfg.NoBackups = flags.noBackups

	return cfg, nil
}

func runConversion(cmd *cobra.Command, args []string, flags *runFlags, mode runMode) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	cliCfg, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	// "-" streams: there is no file to put the XML next to.
	if slices.Contains(args, fsutil.StdinPath) {
		cfg.Output.Mode = config.OutputModeStdout
	}

	runID := uuid.NewString()
	out, err := openSink(cmd.OutOrStdout(), cfg, runID, mode)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	logger.Debug("starting conversion",
		logging.FieldRunID, runID,
		logging.FieldPaths, args,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldOnError, cfg.OnError,
		logging.FieldSink, sinkName(cfg, mode),
		logging.FieldDryRun, cfg.DryRun,
	)

	result, runErr := runner.New(nil, out).Run(ctx, runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
		Stdin:          cmd.InOrStdin(),
		RunID:          runID,
		Config:         cfg,
	})
	if err := out.Close(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("close output: %w", err))
	}
	if result == nil {
		return runErr
	}

	// Keep stdout clean for documents when they stream there.
	reportWriter := cmd.OutOrStdout()
	if streamsToStdout(cfg, mode) {
		reportWriter = cmd.ErrOrStderr()
	}

	if err := report(ctx, cmd, reportWriter, flags, cfg, workDir, result); err != nil {
		return err
	}

	switch {
	case errors.Is(runErr, runner.ErrAborted):
		return &ExitError{Code: ExitCodeFromResult(result), Err: runErr}
	case runErr != nil:
		return runErr
	}

	if code := ExitCodeFromResult(result); code != ExitSuccess {
		return &ExitError{Code: code, Err: ErrConversionFailed}
	}
	return nil
}

func report(
	ctx context.Context,
	cmd *cobra.Command,
	w io.Writer,
	flags *runFlags,
	cfg *config.Config,
	workDir string,
	result *runner.Result,
) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      w,
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

// openSink builds the sink for the resolved configuration. Check runs and
// dry runs discard every document.
func openSink(stdout io.Writer, cfg *config.Config, runID string, mode runMode) (sink.Sink, error) {
	if mode == modeCheck || cfg.DryRun {
		return sink.Discard{}, nil
	}

	switch cfg.Output.Mode {
	case config.OutputModeStdout:
		return sink.NewStream(stdout, "stdout"), nil
	case config.OutputModeSQLite:
		return sink.OpenSQLite(cfg.DatabasePath(), runID)
	default:
		return sink.NewDir(sink.DirOptions{
			Dir:    cfg.Output.Dir,
			Suffix: cfg.Output.Suffix,
			Backups: fsutil.BackupConfig{
				Enabled: cfg.BackupsEnabled(),
				Mode:    fsutil.BackupMode(cfg.Backups.Mode),
			},
		}), nil
	}
}

func sinkName(cfg *config.Config, mode runMode) string {
	if mode == modeCheck || cfg.DryRun {
		return "discard"
	}
	return string(cfg.Output.Mode)
}

func streamsToStdout(cfg *config.Config, mode runMode) bool {
	return sinkName(cfg, mode) == string(config.OutputModeStdout)
}
