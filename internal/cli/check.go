package cli

import "github.com/spf13/cobra"

func newCheckCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report which EDIFACT files would fail to convert",
		Long: `Convert inputs without writing any output and report the failures.

Check accepts the same input selection as convert and exits with status 1
when any input fails, which makes it suitable for CI gates.

Examples:
  edixml check                     # Check the current directory
  edixml check inbox/ -v           # List every input with its outcome
  edixml check --format json in/   # Machine-readable report`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, args, flags, modeCheck)
		},
	}

	addRunFlags(cmd, flags)

	return cmd
}
