// Package dashboard implements the interactive metrics dashboard TUI.
//
// The dashboard is a Bubble Tea program. Pages come from the route table:
// the current path is resolved by a shell.Navigator into a Screen, and
// unknown paths land on a "not found" screen that shows the path.
//
// # Pages
//
//	/                          triggers, enter opens one
//	/trigger/{id}              metric list of a trigger
//	/trigger/{id}/edit         read-only trigger summary
//	/trigger/{id}/duplicate    read-only trigger summary
//	/trigger/new               read-only note
//	/tags /patterns            snapshot tags and patterns
//	/notifications             state changes, newest first
//	/settings                  effective configuration
//
// # Metric actions
//
// The trigger page renders a metriclist.List. The list does not mutate
// anything itself: its intents are recorded and the model turns them into
// store calls (set maintenance, delete a metric, delete all NODATA), run
// as commands. The maintenance menu opens as an overlay list.
//
// # Message Flow
//
//  1. tickMsg fires at the configured interval
//  2. reloadCmd rereads the snapshot when its file changed
//  3. reloadedMsg rebuilds the current screen
package dashboard
