package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metriclist"
)

var overlayClose = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))

const menuWidth = 40

// menuCapture implements metriclist.Menu by keeping the menu for the
// overlay instead of showing it right away.
type menuCapture struct {
	menu   metriclist.MaintenanceMenu
	choose func(maintenance.Key)
	shown  bool
}

func (c *menuCapture) Show(menu metriclist.MaintenanceMenu, choose func(maintenance.Key)) {
	c.menu = menu
	c.choose = choose
	c.shown = true
}

// menuItem is one maintenance option in the overlay list.
type menuItem struct {
	entry metriclist.MenuEntry
}

func (i menuItem) Title() string       { return i.entry.Caption }
func (i menuItem) Description() string { return string(i.entry.Key) }
func (i menuItem) FilterValue() string { return i.entry.Caption }

// menuOverlay is the open maintenance menu of one metric.
type menuOverlay struct {
	menu      metriclist.MaintenanceMenu
	choose    func(maintenance.Key)
	triggerID string
	rec       *intentLog
	list      list.Model
}

func newMenuOverlay(menu metriclist.MaintenanceMenu, choose func(maintenance.Key), triggerID string, rec *intentLog, width, height int) *menuOverlay {
	items := make([]list.Item, len(menu.Entries))
	for i, e := range menu.Entries {
		items[i] = menuItem{entry: e}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, menuWidth, len(items)+4)
	l.Title = fmt.Sprintf("Maintenance for %s", menu.Metric)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	o := &menuOverlay{menu: menu, choose: choose, triggerID: triggerID, rec: rec, list: l}
	o.resize(width, height)
	return o
}

// resize keeps the list inside the terminal.
func (o *menuOverlay) resize(width, height int) {
	w, h := menuWidth, len(o.menu.Entries)+4
	if width > 0 && width-6 < w {
		w = width - 6
	}
	if height > 0 && height-8 < h {
		h = height - 8
	}
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	o.list.SetSize(w, h)
}

func (o *menuOverlay) selectedKey() (maintenance.Key, bool) {
	item, ok := o.list.SelectedItem().(menuItem)
	if !ok {
		return "", false
	}
	return item.entry.Key, true
}

func (o *menuOverlay) View() string {
	var b strings.Builder
	b.WriteString(o.list.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Currently: ") + o.menu.Caption)
	if len(o.menu.Header) > 0 {
		b.WriteString("\n\n")
		b.WriteString(TitleStyle.Render(o.menu.Header[0]))
		for _, line := range o.menu.Header[1:] {
			b.WriteString("\n")
			b.WriteString(MutedStyle.Render(line))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("enter to choose, esc to close"))
	return OverlayBoxStyle.Render(b.String())
}
