package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/edixml/internal/logging"
	"github.com/yaklabco/edixml/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// ErrConfigExists is returned when init would overwrite a file without --force.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an edixml configuration file",
		Long: `Create a documented .edixml.yml in the current directory holding the
default settings. Edit it to change the input extensions, the charset,
the failure policy or where converted documents go.

Examples:
  edixml init                      Create .edixml.yml
  edixml init --format toml        Create .edixml.toml instead
  edixml init --output ci.yml      Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file syntax: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .edixml.yml or .edixml.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(strings.ToLower(flags.format))
	if format != config.FileFormatYAML && format != config.FileFormatTOML {
		return usageError(fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = config.DefaultFileName(format)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		in := cmd.InOrStdin()
		if !isTerminal(in) || !confirmOverwrite(in, cmd.ErrOrStderr(), outputPath) {
			return usageError(fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, outputPath))
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("write file: %w", err)}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'edixml convert' to convert with these settings")

	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirmOverwrite asks on out and reads a yes/no answer from in. Anything
// other than y or yes declines.
func confirmOverwrite(in io.Reader, out io.Writer, path string) bool {
	_, _ = fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
