package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/route"
	"github.com/rileyhilliard/mdash/internal/shell"
	"github.com/rileyhilliard/mdash/internal/ui"
	"github.com/rileyhilliard/mdash/internal/util"
)

// Screen is one dashboard page.
type Screen interface {
	Title() string
	Render(m *Model) page
}

// opener is a screen whose rows can be opened with enter.
type opener interface {
	Open(m *Model, row int) tea.Cmd
}

// page is the rendered content of a screen: fixed header lines above a
// list of selectable rows.
type page struct {
	header []string
	rows   []string
	empty  string
}

// newShell registers a screen for every routed page.
func newShell() *shell.Shell[Screen] {
	sh := shell.New[Screen](nil, func(route.Match) Screen { return notFoundScreen{} })
	sh.Register(route.PageIndex, func(route.Match) Screen { return triggersScreen{} })
	sh.Register(route.PageTrigger, func(m route.Match) Screen {
		return &metricsScreen{id: m.Param(route.ParamID)}
	})
	sh.Register(route.PageTriggerAdd, func(route.Match) Screen {
		return triggerInfoScreen{page: route.PageTriggerAdd}
	})
	sh.Register(route.PageTriggerEdit, func(m route.Match) Screen {
		return triggerInfoScreen{page: route.PageTriggerEdit, id: m.Param(route.ParamID)}
	})
	sh.Register(route.PageTriggerDuplicate, func(m route.Match) Screen {
		return triggerInfoScreen{page: route.PageTriggerDuplicate, id: m.Param(route.ParamID)}
	})
	sh.Register(route.PageTags, func(route.Match) Screen { return tagsScreen{} })
	sh.Register(route.PagePatterns, func(route.Match) Screen { return patternsScreen{} })
	sh.Register(route.PageNotifications, func(route.Match) Screen { return notificationsScreen{} })
	sh.Register(route.PageSettings, func(route.Match) Screen { return settingsScreen{} })
	return sh
}

// nameWidth caps the trigger name column.
const nameWidth = 32

// triggersScreen lists every trigger.
type triggersScreen struct{}

func (triggersScreen) Title() string { return "Triggers" }

func (triggersScreen) Render(m *Model) page {
	triggers := m.store.Triggers()
	cells := make([][]string, len(triggers))
	for i, t := range triggers {
		cells[i] = []string{
			util.Truncate(triggerName(t), nameWidth),
			t.ID,
			strconv.Itoa(len(t.Metrics)),
			strconv.Itoa(metric.CountState(t.Metrics, metric.StateNoData)),
			util.JoinOrDefault(t.Tags, "-"),
		}
	}
	header, rows := alignColumns([]string{"Name", "ID", "Metrics", "NODATA", "Tags"}, cells)
	return page{header: []string{header}, rows: rows, empty: "No triggers in snapshot"}
}

func (triggersScreen) Open(m *Model, row int) tea.Cmd {
	triggers := m.store.Triggers()
	if row < 0 || row >= len(triggers) {
		return nil
	}
	m.navigate(route.PageTrigger, map[string]string{route.ParamID: triggers[row].ID})
	return nil
}

// metricsScreen shows the metric list of one trigger.
type metricsScreen struct {
	id string
}

func (s *metricsScreen) Title() string { return "Trigger " + s.id }

func (s *metricsScreen) Render(m *Model) page {
	t, err := m.store.Trigger(s.id)
	if err != nil {
		return page{empty: fmt.Sprintf("Trigger %q not found", s.id)}
	}
	l, err := m.metricList(s.id, &intentLog{}, nil)
	if err != nil {
		return page{empty: err.Error()}
	}

	summary := triggerName(t) + "  " + util.Count(len(t.Metrics), "metric", "metrics")
	if n := l.Props().NoDataCount; n > 0 {
		summary += fmt.Sprintf(", %d NODATA", n)
	}
	if len(t.Tags) > 0 {
		summary += "  [" + strings.Join(t.Tags, ", ") + "]"
	}

	var labels []string
	for _, h := range l.Headers() {
		label := h.Label
		if h.Column == metriclist.ColumnState {
			label = "State"
		}
		if arrow := h.Arrow(); arrow != "" {
			label += " " + arrow
		}
		labels = append(labels, label)
	}
	labels = append(labels, "Maintenance", "Set")

	rows := l.Rows()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		var line []string
		if l.Props().ShowStatus {
			line = append(line, ui.StateBadge(r.Status))
		}
		line = append(line, r.Key, r.EventTime, r.Value, r.Maintenance, r.Attribution)
		cells[i] = line
	}
	header, lines := alignColumns(labels, cells)

	hdr := []string{TitleStyle.Render(summary), header}
	if l.CanRemoveNoData() {
		hdr[0] += MutedStyle.Render("  (D deletes all NODATA)")
	}
	return page{header: hdr, rows: lines, empty: "No metrics"}
}

func (s *metricsScreen) Open(m *Model, _ int) tea.Cmd {
	return m.openMaintenance()
}

// triggerInfoScreen summarises a trigger for the add, edit and duplicate
// pages. Trigger definitions are not editable from the dashboard.
type triggerInfoScreen struct {
	page route.Page
	id   string
}

func (s triggerInfoScreen) Title() string {
	switch s.page {
	case route.PageTriggerAdd:
		return "New trigger"
	case route.PageTriggerDuplicate:
		return "Duplicate " + s.id
	default:
		return "Edit " + s.id
	}
}

func (s triggerInfoScreen) Render(m *Model) page {
	note := MutedStyle.Render("Trigger definitions are read-only here. Edit the snapshot source instead.")
	if s.page == route.PageTriggerAdd {
		return page{header: []string{note}}
	}
	t, err := m.store.Trigger(s.id)
	if err != nil {
		return page{empty: fmt.Sprintf("Trigger %q not found", s.id)}
	}
	lines := []string{
		LabelStyle.Render("ID:      ") + t.ID,
		LabelStyle.Render("Name:    ") + triggerName(t),
		LabelStyle.Render("Tags:    ") + util.JoinOrNone(t.Tags),
		LabelStyle.Render("Metrics: ") + strconv.Itoa(len(t.Metrics)),
	}
	return page{header: append(lines, "", note)}
}

// tagsScreen lists the distinct tags with the number of triggers using each.
type tagsScreen struct{}

func (tagsScreen) Title() string { return "Tags" }

func (tagsScreen) Render(m *Model) page {
	snap := m.store.Snapshot()
	tags := snap.Tags()
	counts := make(map[string]int, len(tags))
	for _, t := range snap.Triggers {
		for _, tag := range t.Tags {
			counts[tag]++
		}
	}
	sort.Strings(tags)
	cells := make([][]string, len(tags))
	for i, tag := range tags {
		cells[i] = []string{tag, strconv.Itoa(counts[tag])}
	}
	header, rows := alignColumns([]string{"Tag", "Triggers"}, cells)
	return page{header: []string{header}, rows: rows, empty: "No tags"}
}

// patternsScreen lists the metric patterns of the snapshot.
type patternsScreen struct{}

func (patternsScreen) Title() string { return "Patterns" }

func (patternsScreen) Render(m *Model) page {
	snap := m.store.Snapshot()
	return page{rows: append([]string(nil), snap.Patterns...), empty: "No patterns"}
}

// notificationsScreen lists state changes, newest first.
type notificationsScreen struct{}

func (notificationsScreen) Title() string { return "Notifications" }

func (notificationsScreen) notifications(m *Model) []metric.Notification {
	snap := m.store.Snapshot()
	out := append([]metric.Notification(nil), snap.Notifications...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func (s notificationsScreen) Render(m *Model) page {
	ns := s.notifications(m)
	cells := make([][]string, len(ns))
	for i, n := range ns {
		cells[i] = []string{metric.FormatUnix(n.Timestamp, m.loc), n.TriggerID, n.Metric, ui.StateBadge(n.State)}
	}
	header, rows := alignColumns([]string{"Time", "Trigger", "Metric", "State"}, cells)
	return page{header: []string{header}, rows: rows, empty: "No notifications"}
}

func (s notificationsScreen) Open(m *Model, row int) tea.Cmd {
	ns := s.notifications(m)
	if row < 0 || row >= len(ns) || ns[row].TriggerID == "" {
		return nil
	}
	m.navigate(route.PageTrigger, map[string]string{route.ParamID: ns[row].TriggerID})
	return nil
}

// settingsScreen shows the effective configuration.
type settingsScreen struct{}

func (settingsScreen) Title() string { return "Settings" }

func (settingsScreen) Render(m *Model) page {
	cells := [][]string{
		{"snapshot", m.store.Path()},
		{"sort", sortLabel(m.sort)},
		{"refresh", m.interval.String()},
		{"timezone", m.loc.String()},
	}
	for _, s := range m.settings {
		cells = append(cells, []string{s.Key, s.Value})
	}
	captions := make([]string, 0)
	for _, k := range m.catalog.Keys() {
		if c, err := m.catalog.Caption(k); err == nil {
			captions = append(captions, c)
		}
	}
	cells = append(cells, []string{"maintenance", strings.Join(captions, ", ")})

	header, rows := alignColumns([]string{"Setting", "Value"}, cells)
	return page{header: []string{header}, rows: rows}
}

// notFoundScreen is shown for paths that match no page.
type notFoundScreen struct{}

func (notFoundScreen) Title() string { return "Not found" }

func (notFoundScreen) Render(m *Model) page {
	return page{header: []string{
		FlashErrorStyle.Render(fmt.Sprintf("No page at %s", m.nav.Current().Path)),
		MutedStyle.Render("Press 1 for triggers or esc to go back."),
	}}
}

func triggerName(t metric.Trigger) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

func sortLabel(s metriclist.SortSpec) string {
	dir := "ascending"
	if s.Descending {
		dir = "descending"
	}
	return string(s.Column) + " " + dir
}

// alignColumns pads cells into columns two spaces apart and returns the
// header line and one line per row.
func alignColumns(headers []string, cells [][]string) (string, []string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if i < len(widths) && lipgloss.Width(c) > widths[i] {
				widths[i] = lipgloss.Width(c)
			}
		}
	}

	join := func(values []string) string {
		parts := make([]string, len(values))
		for i, v := range values {
			if i == len(values)-1 {
				parts[i] = v
				continue
			}
			parts[i] = v + strings.Repeat(" ", widths[i]-lipgloss.Width(v))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	lines := make([]string, len(cells))
	for i, row := range cells {
		lines[i] = join(row)
	}
	return ColumnHeaderStyle.Render(join(headers)), lines
}

// maintenanceCaption returns the catalog caption for key, or the raw key.
func maintenanceCaption(c *maintenance.Catalog, key maintenance.Key) string {
	if caption, err := c.Caption(key); err == nil {
		return caption
	}
	return string(key)
}
