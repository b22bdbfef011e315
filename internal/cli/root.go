package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile      string
	snapshotFlag string
	noColor      bool
	verbose      bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "mdash",
	Short: "Terminal dashboard for metric triggers",
	Long: `mdash shows the metrics of monitoring triggers, sorts them, and manages
maintenance windows and stale NODATA metrics.

Data comes from a snapshot file (see "snapshot" in the config). Changes made
from mdash are written back to that file.

Examples:
  mdash dashboard
  mdash metrics cpu --sort value --desc
  mdash maintenance set cpu web1.cpu hour`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .mdash.yaml, then ~/.config/mdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "", "snapshot file, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			_ = WriteJSONFromError(os.Stdout, err)
		} else {
			fmt.Fprint(os.Stderr, formatError(err))
		}
		os.Exit(1)
	}
}

// formatError renders err for the terminal. Structured errors already end
// with a newline.
func formatError(err error) string {
	msg := err.Error()
	if isUnknownCommandError(err) {
		msg += "\nRun 'mdash --help' for usage."
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

// isUnknownCommandError checks cobra's error text for unknown commands or flags.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
