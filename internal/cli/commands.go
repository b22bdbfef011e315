package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	dashboardPathFlag     string
	dashboardIntervalFlag string
	metricsSortFlag       string
	metricsDescFlag       bool
	metricsStatusFlag     bool
	nodataForceFlag       bool
	configInitForce       bool
)

// dashboardCmd starts the interactive TUI
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive metrics dashboard",
	Long: `Start the interactive dashboard.

Browse triggers, sort their metrics, set maintenance windows and delete
stale metrics. The snapshot file is reread whenever it changes.

Examples:
  mdash dashboard
  mdash dashboard --path /trigger/cpu
  mdash dashboard --interval 2s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardPathFlag, dashboardIntervalFlag)
	},
}

// triggersCmd lists the triggers of the snapshot
var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List triggers",
	Long: `List the triggers of the snapshot with metric and NODATA counts.

Examples:
  mdash triggers
  mdash triggers --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return triggersCommand(cmd.OutOrStdout(), a)
	},
}

// metricsCmd prints the metric table of one trigger
var metricsCmd = &cobra.Command{
	Use:   "metrics [trigger]",
	Short: "Show the metrics of a trigger",
	Long: `Print the metric list of a trigger as a table.

Without a trigger ID an interactive picker is shown on a terminal.

Examples:
  mdash metrics cpu
  mdash metrics cpu --sort value --desc
  mdash metrics cpu --status --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		opts := metricsOptions{
			Sort:   metricsSortFlag,
			Desc:   metricsDescFlag,
			Status: metricsStatusFlag,
		}
		return metricsCommand(cmd.OutOrStdout(), a, firstArg(args), opts)
	},
}

// maintenanceCmd groups the maintenance subcommands
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Set or clear metric maintenance",
	Long: `Manage maintenance windows of metrics.

Options: off, quarter (15 min), hour, day, week, month.`,
}

var maintenanceSetCmd = &cobra.Command{
	Use:   "set <trigger> <metric> [option]",
	Short: "Put a metric into maintenance",
	Long: `Put a metric into maintenance for one of the catalog durations.

Without an option an interactive menu is shown on a terminal.

Examples:
  mdash maintenance set cpu web1.cpu hour
  mdash maintenance set cpu web1.cpu`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		option := ""
		if len(args) == 3 {
			option = args[2]
		}
		return maintenanceSetCommand(cmd.OutOrStdout(), a, args[0], args[1], option)
	},
}

var maintenanceClearCmd = &cobra.Command{
	Use:   "clear <trigger> <metric>",
	Short: "Take a metric out of maintenance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return maintenanceSetCommand(cmd.OutOrStdout(), a, args[0], args[1], "off")
	},
}

// deleteCmd removes one metric from a trigger
var deleteCmd = &cobra.Command{
	Use:   "delete <trigger> <metric>",
	Short: "Delete a metric from a trigger",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return deleteCommand(cmd.OutOrStdout(), a, args[0], args[1])
	},
}

// nodataCmd groups the NODATA subcommands
var nodataCmd = &cobra.Command{
	Use:   "nodata",
	Short: "Manage NODATA metrics",
}

var nodataDeleteCmd = &cobra.Command{
	Use:   "delete <trigger>",
	Short: "Delete all NODATA metrics of a trigger",
	Long: `Delete every metric of a trigger whose state is NODATA.

Like the dashboard, this is only offered when more than one metric is
NODATA. Use --force to delete a single one as well.

Examples:
  mdash nodata delete cpu
  mdash nodata delete cpu --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return nodataDeleteCommand(cmd.OutOrStdout(), a, args[0], nodataForceFlag)
	},
}

// routeCmd groups the route subcommands
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Resolve dashboard paths and build links",
}

var routeResolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Show the page a path resolves to",
	Long: `Resolve a dashboard path to its page and parameters.

Examples:
  mdash route resolve /trigger/cpu
  mdash route resolve /trigger/cpu/edit --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routeResolveCommand(cmd.OutOrStdout(), args[0])
	},
}

var routePathCmd = &cobra.Command{
	Use:   "path <page> [key=value...]",
	Short: "Build the path of a page",
	Long: `Build the path of a page from its parameters.

Examples:
  mdash route path trigger id=cpu
  mdash route path settings`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return routePathCommand(cmd.OutOrStdout(), args[0], args[1:])
	},
}

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, show and edit the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .mdash.yaml with defaults",
	Long: `Write a config file with the default settings.

The file goes to --config when given, otherwise .mdash.yaml in the current
directory.

Examples:
  mdash config init
  mdash config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			path = defaultConfigPath(wd)
		}
		return configInitCommand(cmd.OutOrStdout(), path, configInitForce)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return configShowCommand(cmd.OutOrStdout(), a)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Set a dotted key in the config file, keeping its comments.

Examples:
  mdash config set sort.column value
  mdash config set refresh 10s`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(cmd.OutOrStdout(), cfgFile, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashboardPathFlag, "path", "/", "page to open, e.g. /trigger/cpu")
	dashboardCmd.Flags().StringVar(&dashboardIntervalFlag, "interval", "", "snapshot reload interval (default from config)")

	rootCmd.AddCommand(triggersCmd)

	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().StringVar(&metricsSortFlag, "sort", "", "sort column: state, name, event or value")
	metricsCmd.Flags().BoolVar(&metricsDescFlag, "desc", false, "sort descending")
	metricsCmd.Flags().BoolVar(&metricsStatusFlag, "status", false, "show the state column")

	rootCmd.AddCommand(maintenanceCmd)
	maintenanceCmd.AddCommand(maintenanceSetCmd)
	maintenanceCmd.AddCommand(maintenanceClearCmd)

	rootCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(nodataCmd)
	nodataCmd.AddCommand(nodataDeleteCmd)
	nodataDeleteCmd.Flags().BoolVar(&nodataForceFlag, "force", false, "also delete a single NODATA metric")

	rootCmd.AddCommand(routeCmd)
	routeCmd.AddCommand(routeResolveCmd)
	routeCmd.AddCommand(routePathCmd)

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseInterval parses the --interval flag. Empty means the config value.
func parseInterval(flag string, fallback time.Duration) (time.Duration, error) {
	if flag == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, invalidIntervalError(flag, err)
	}
	return d, nil
}
