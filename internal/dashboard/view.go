package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/mdash/internal/util"
)

// chromeLines is the number of lines taken by header, path and footer.
const chromeLines = 5

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.place(renderHelp())
	}
	if m.overlay != nil {
		return m.place(m.overlay.View())
	}
	return m.renderDashboard()
}

func (m Model) renderDashboard() string {
	p := m.screen().Render(&m)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(m.nav.Current().Path))
	b.WriteString("\n\n")

	for _, line := range p.header {
		b.WriteString(line)
		b.WriteString("\n")
	}

	body := m.renderRows(p)
	if m.viewportReady {
		vp := m.viewport
		vp.Height = m.bodyHeight(len(p.header))
		vp.SetContent(body)
		vp.SetYOffset(scrollOffset(vp.YOffset, m.selected, vp.Height))
		body = vp.View()
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with summary stats.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("mdash")

	triggers := m.store.Triggers()
	stats := LabelStyle.Render(fmt.Sprintf(" | %s | %s | updated %s",
		m.screen().Title(), util.Count(len(triggers), "trigger", "triggers"), m.updatedText()))

	return HeaderStyle.Render(title + stats)
}

func (m Model) updatedText() string {
	secs := int(m.now().Sub(m.lastUpdate).Seconds())
	switch {
	case secs <= 0:
		return "just now"
	case secs == 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

// renderRows renders the selectable rows with the cursor marker.
func (m Model) renderRows(p page) string {
	if len(p.rows) == 0 {
		if p.empty == "" {
			return ""
		}
		return MutedStyle.Render(p.empty)
	}

	lines := make([]string, len(p.rows))
	pad := strings.Repeat(" ", lipgloss.Width(selectionMarker))
	for i, row := range p.rows {
		if i == m.selected {
			lines[i] = SelectedRowStyle.Render(selectionMarker + row)
			continue
		}
		lines[i] = RowStyle.Render(pad + row)
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the key hints, or a pending prompt or status line.
func (m Model) renderFooter() string {
	if m.confirm != nil {
		return ConfirmStyle.Render(m.confirm.prompt)
	}

	hints := make([]string, 0, 8)
	for _, b := range keys.ShortHelp() {
		if b.Help().Desc == "back" && m.nav.Depth() == 0 {
			continue
		}
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	if _, ok := m.triggerScreen(); ok {
		hints = append(hints, "m maintenance", "d delete", "n/e/v/t sort")
	}
	footer := FooterStyle.Render(strings.Join(hints, " | "))

	if m.flash != "" {
		style := FlashStyle
		if m.flashErr {
			style = FlashErrorStyle
		}
		footer += "\n" + style.Render(m.flash)
	}
	return footer
}

func (m *Model) resizeViewport() {
	if !m.viewportReady {
		m.viewport = viewport.New(m.width, m.bodyHeight(0))
		m.viewportReady = true
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight(0)
}

func (m Model) bodyHeight(headerLines int) int {
	h := m.height - chromeLines - headerLines
	if h < 1 {
		h = 1
	}
	return h
}

// scrollOffset returns the viewport offset that keeps row visible.
func scrollOffset(offset, row, height int) int {
	if row < offset {
		return row
	}
	if row >= offset+height {
		return row - height + 1
	}
	return offset
}
