// Package cli implements the mdash command-line interface.
//
// Each command is a cobra.Command that loads the config, opens the snapshot
// store and delegates to a *Command function taking an io.Writer, so the
// work can be tested without the cobra plumbing.
//
// # Command Structure
//
//	mdash dashboard                          - interactive TUI
//	mdash triggers                           - list triggers
//	mdash metrics [trigger]                  - metric table of a trigger
//	mdash maintenance set <t> <m> [option]   - set maintenance
//	mdash maintenance clear <t> <m>          - clear maintenance
//	mdash delete <t> <m>                     - delete one metric
//	mdash nodata delete <t>                  - delete all NODATA metrics
//	mdash route resolve|path                 - dashboard path tools
//	mdash config init|show|set               - configuration
//	mdash version
//
// # Metric actions
//
// Metric commands go through the same metriclist.List as the dashboard:
// the list validates the action and emits an intent, and the command
// applies the intent to the store, which saves the snapshot file.
//
// # Flag Handling
//
// Global flags (--config, --snapshot, --verbose, --no-color, --json) are
// defined on the root command. --json switches every command to the
// JSONEnvelope output used for scripting.
package cli
