package ui

import "github.com/rileyhilliard/mdash/internal/metric"

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarning = "⚠"
	SymbolPending = "○"
	SymbolFilled  = "●"
	SymbolNoData  = "◌"
	SymbolWrench  = "⚒"
)

// StateSymbol returns the glyph shown in the state column.
func StateSymbol(s metric.State) string {
	switch s {
	case metric.StateOK:
		return SymbolFilled
	case metric.StateWarn:
		return SymbolWarning
	case metric.StateError, metric.StateException:
		return SymbolFail
	case metric.StateNoData:
		return SymbolNoData
	default:
		return SymbolPending
	}
}

// StateBadge renders the colored symbol and state name, e.g. "● OK".
func StateBadge(s metric.State) string {
	label := string(s)
	if label == "" {
		label = "?"
	}
	return StateStyle(s).Render(StateSymbol(s) + " " + label)
}
