package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/route"
)

// keyMap holds every binding of the dashboard.
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Up           key.Binding
	Down         key.Binding
	First        key.Binding
	Last         key.Binding
	Open         key.Binding
	Back         key.Binding
	Reload       key.Binding
	SortName     key.Binding
	SortEvent    key.Binding
	SortValue    key.Binding
	SortState    key.Binding
	ToggleStatus key.Binding
	Maintenance  key.Binding
	Delete       key.Binding
	DeleteNoData key.Binding
	Confirm      key.Binding
	GoIndex      key.Binding
	GoTags       key.Binding
	GoPatterns   key.Binding
	GoNotices    key.Binding
	GoSettings   key.Binding
}

var keys = keyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous row")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
	First:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first row")),
	Last:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last row")),
	Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload snapshot")),
	SortName:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sort by name")),
	SortEvent:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "sort by last event")),
	SortValue:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sort by value")),
	SortState:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort by state")),
	ToggleStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show state column")),
	Maintenance:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maintenance")),
	Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete metric")),
	DeleteNoData: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all NODATA")),
	Confirm:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	GoIndex:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "triggers")),
	GoTags:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tags")),
	GoPatterns:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "patterns")),
	GoNotices:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "notifications")),
	GoSettings:   key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "settings")),
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Open, k.Back, k.Help}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.First, k.Last, k.Open, k.Back},
		{k.SortName, k.SortEvent, k.SortValue, k.SortState, k.ToggleStatus},
		{k.Maintenance, k.Delete, k.DeleteNoData, k.Reload},
		{k.GoIndex, k.GoTags, k.GoPatterns, k.GoNotices, k.GoSettings, k.Help, k.Quit},
	}
}

var sortKeys = []struct {
	binding *key.Binding
	column  metriclist.Column
}{
	{&keys.SortName, metriclist.ColumnName},
	{&keys.SortEvent, metriclist.ColumnEvent},
	{&keys.SortValue, metriclist.ColumnValue},
	{&keys.SortState, metriclist.ColumnState},
}

var pageKeys = []struct {
	binding *key.Binding
	page    route.Page
}{
	{&keys.GoIndex, route.PageIndex},
	{&keys.GoTags, route.PageTags},
	{&keys.GoPatterns, route.PagePatterns},
	{&keys.GoNotices, route.PageNotifications},
	{&keys.GoSettings, route.PageSettings},
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, keys.Help) && m.overlay == nil {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp {
		if key.Matches(msg, keys.Back) {
			m.showHelp = false
		}
		return true, nil
	}

	if m.overlay != nil {
		return true, m.updateOverlay(msg)
	}

	if m.confirm != nil {
		c := m.confirm
		m.confirm = nil
		if key.Matches(msg, keys.Confirm) {
			return true, c.action(m)
		}
		m.setFlash("Cancelled", false)
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, keys.Reload):
		return true, m.reloadCmd(true)

	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case key.Matches(msg, keys.Down):
		if m.selected < m.rowCount()-1 {
			m.selected++
		}
		return true, nil

	case key.Matches(msg, keys.First):
		m.selected = 0
		return true, nil

	case key.Matches(msg, keys.Last):
		if n := m.rowCount(); n > 0 {
			m.selected = n - 1
		}
		return true, nil

	case key.Matches(msg, keys.Open):
		return true, m.open()

	case key.Matches(msg, keys.Back):
		if _, ok := m.nav.Back(); ok {
			m.selected = 0
		}
		return true, nil

	case key.Matches(msg, keys.ToggleStatus):
		m.showStatus = !m.showStatus
		return true, nil

	case key.Matches(msg, keys.Maintenance):
		return true, m.openMaintenance()

	case key.Matches(msg, keys.Delete):
		m.askDelete()
		return true, nil

	case key.Matches(msg, keys.DeleteNoData):
		m.askDeleteNoData()
		return true, nil
	}

	for _, sk := range sortKeys {
		if key.Matches(msg, *sk.binding) {
			return true, m.sortBy(sk.column)
		}
	}

	for _, pk := range pageKeys {
		if key.Matches(msg, *pk.binding) {
			m.navigate(pk.page, nil)
			return true, nil
		}
	}

	return false, nil
}
