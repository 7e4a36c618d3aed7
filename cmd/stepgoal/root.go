package main

import (
	"fmt"
	"io"
	"time"

	"github.com/2beens/stepgoal/internal/logging"
	"github.com/2beens/stepgoal/internal/version"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "stepgoal",
		Short: "Project what daily step average you need to reach your yearly goal",
		Long: `stepgoal compares your average daily steps so far this year with the
average you are aiming for, and tells you what you need to walk per day for
the rest of the year.

Examples:
  stepgoal calc --goal 10000 --current 8000
  stepgoal calc --goal "10 000" --current 7500 --start tomorrow --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(logging.LoggerSetupParams{
				LogLevel: logLevel,
				Output:   cmd.ErrOrStderr(),
			})
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(newCalcCmd(now))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	})

	return rootCmd
}
