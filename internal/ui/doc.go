// Package ui provides terminal UI components for mdash's CLI output.
//
// # Color Scheme
//
// Colors are neon hex values rendered through Lip Gloss. Metric states map
// to colors with StateColor:
//
//	OK        (green)
//	WARN      (amber)
//	ERROR     (red)
//	NODATA    (purple)
//	EXCEPTION (orange)
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Components
//
//	RenderMetricTable - metric list as a static Bubbles table
//	HuhMenu           - maintenance picker, a metriclist.Menu backed by huh
//	PickTrigger       - interactive trigger selection with a Bubbles list
package ui
