package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/mdash/internal/metriclist"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// RenderMetricTable renders a metric list for the metrics command. Column
// titles carry the sort arrow of the active column.
func RenderMetricTable(l *metriclist.List) string {
	rows := l.Rows()
	if len(rows) == 0 {
		return MutedStyle().Render("No metrics")
	}

	headers := l.Headers()
	cols := make([]TableColumn, 0, len(headers)+2)
	for _, h := range headers {
		title := h.Label
		if h.Column == metriclist.ColumnState {
			title = "State"
		}
		if arrow := h.Arrow(); arrow != "" {
			title += " " + arrow
		}
		cols = append(cols, TableColumn{Title: title})
	}
	cols = append(cols, TableColumn{Title: "Maintenance"}, TableColumn{Title: "Set"})

	cells := make([][]string, len(rows))
	for i, r := range rows {
		var line []string
		for _, h := range headers {
			switch h.Column {
			case metriclist.ColumnState:
				line = append(line, string(r.Status))
			case metriclist.ColumnName:
				line = append(line, r.Key)
			case metriclist.ColumnEvent:
				line = append(line, r.EventTime)
			case metriclist.ColumnValue:
				line = append(line, r.Value)
			}
		}
		line = append(line, r.Maintenance, r.Attribution)
		cells[i] = line
	}

	for i := range cols {
		w := lipgloss.Width(cols[i].Title)
		for _, line := range cells {
			if cw := lipgloss.Width(line[i]); cw > w {
				w = cw
			}
		}
		cols[i].Width = w + 2
	}

	return strings.TrimRight(RenderSimpleTable(cols, cells), "\n")
}
