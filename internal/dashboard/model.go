package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/route"
	"github.com/rileyhilliard/mdash/internal/shell"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/rileyhilliard/mdash/internal/util"
)

// DefaultInterval is the snapshot reload interval when none is configured.
const DefaultInterval = 5 * time.Second

// tickMsg triggers a snapshot reload check.
type tickMsg time.Time

// reloadedMsg carries the result of a reload check.
type reloadedMsg struct {
	changed bool
	forced  bool
	at      time.Time
	err     error
}

// storeResultMsg carries the result of a store mutation.
type storeResultMsg struct {
	text string
	err  error
}

// Setting is one line of the settings page.
type Setting struct {
	Key   string
	Value string
}

// Options configures a dashboard Model.
type Options struct {
	Store      *store.Store
	Path       string
	Interval   time.Duration
	Sort       metriclist.SortSpec
	ShowStatus bool
	Location   *time.Location
	Catalog    *maintenance.Catalog
	Logger     logger.Logger
	Strict     bool
	Settings   []Setting
	Now        func() time.Time
}

// confirmPrompt is a pending destructive action waiting for "y".
type confirmPrompt struct {
	prompt string
	action func(m *Model) tea.Cmd
}

// Model is the Bubble Tea model for the metrics dashboard.
type Model struct {
	store      *store.Store
	nav        *shell.Navigator[Screen]
	interval   time.Duration
	sort       metriclist.SortSpec
	showStatus bool
	loc        *time.Location
	catalog    *maintenance.Catalog
	log        logger.Logger
	strict     bool
	settings   []Setting
	now        func() time.Time

	selected   int
	width      int
	height     int
	lastUpdate time.Time
	showHelp   bool
	overlay    *menuOverlay
	confirm    *confirmPrompt
	flash      string
	flashErr   bool
	quitting   bool

	viewport      viewport.Model
	viewportReady bool
}

// NewModel creates a dashboard over opts.Store, starting at opts.Path.
func NewModel(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Sort.Column == "" {
		opts.Sort = metriclist.DefaultSort()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Catalog == nil {
		opts.Catalog = maintenance.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Path == "" {
		opts.Path = "/"
	}

	return Model{
		store:      opts.Store,
		nav:        shell.NewNavigator(newShell(), opts.Path),
		interval:   opts.Interval,
		sort:       opts.Sort,
		showStatus: opts.ShowStatus,
		loc:        opts.Location,
		catalog:    opts.Catalog,
		log:        opts.Logger,
		strict:     opts.Strict,
		settings:   opts.Settings,
		now:        opts.Now,
		lastUpdate: opts.Now(),
	}
}

// Init starts the reload ticker.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			m.clampSelection()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		if m.overlay != nil {
			m.overlay.resize(m.width, m.height)
		}

	case tickMsg:
		return m, tea.Batch(m.reloadCmd(false), m.tickCmd())

	case reloadedMsg:
		m.handleReloaded(msg)

	case storeResultMsg:
		if msg.err != nil {
			m.log.Error("%v", msg.err)
			m.setFlash(msg.err.Error(), true)
		} else {
			m.setFlash(msg.text, false)
		}
		m.nav.Reload()
		m.clampSelection()
	}

	return m, nil
}

// Current returns the active page activation.
func (m Model) Current() shell.Activation[Screen] {
	return m.nav.Current()
}

// Sort returns the active metric sort.
func (m Model) Sort() metriclist.SortSpec {
	return m.sort
}

// Selected returns the selected row index on the current page.
func (m Model) Selected() int {
	return m.selected
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// reloadCmd checks the snapshot file for changes. A forced reload rereads
// it unconditionally.
func (m Model) reloadCmd(force bool) tea.Cmd {
	s, now := m.store, m.now
	return func() tea.Msg {
		if force {
			err := s.Reload()
			return reloadedMsg{changed: err == nil, forced: true, at: now(), err: err}
		}
		changed, err := s.ReloadIfChanged()
		return reloadedMsg{changed: changed, at: now(), err: err}
	}
}

func (m *Model) handleReloaded(msg reloadedMsg) {
	if msg.err != nil {
		m.log.Warn("reload failed: %v", msg.err)
		m.setFlash(fmt.Sprintf("Reload failed: %v", msg.err), true)
		return
	}
	m.lastUpdate = msg.at
	if msg.changed {
		m.log.Debug("snapshot reloaded from %s", m.store.Path())
		m.nav.Reload()
		m.clampSelection()
	}
	if msg.forced {
		m.setFlash("Snapshot reloaded", false)
	}
}

// storeCmd runs op off the update loop and reports text on success.
func storeCmd(text string, op func() error) tea.Cmd {
	return func() tea.Msg {
		return storeResultMsg{text: text, err: op()}
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// navigate moves to page and resets the selection.
func (m *Model) navigate(page route.Page, params map[string]string) {
	if _, err := m.nav.Navigate(page, params); err != nil {
		m.log.Warn("navigate to %s: %v", page, err)
		m.setFlash(err.Error(), true)
		return
	}
	m.selected = 0
	m.showHelp = false
}

func (m Model) screen() Screen {
	return m.nav.Current().Screen
}

func (m Model) rowCount() int {
	return len(m.screen().Render(&m).rows)
}

func (m *Model) clampSelection() {
	n := m.rowCount()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// open activates the selected row of the current page.
func (m *Model) open() tea.Cmd {
	o, ok := m.screen().(opener)
	if !ok || m.rowCount() == 0 {
		return nil
	}
	return o.Open(m, m.selected)
}

// triggerScreen returns the metric page on screen, if any.
func (m *Model) triggerScreen() (*metricsScreen, bool) {
	s, ok := m.screen().(*metricsScreen)
	return s, ok
}

// intentLog records what a metric list asked for. The model applies the
// records after the list call returns.
type intentLog struct {
	sorted  []metriclist.Column
	changes []maintenanceChange
	removed []string
	noData  bool
}

type maintenanceChange struct {
	metric string
	key    maintenance.Key
}

// metricList builds the list for triggerID with intents recorded in rec.
func (m *Model) metricList(triggerID string, rec *intentLog, menu metriclist.Menu) (*metriclist.List, error) {
	items, err := m.store.Metrics(triggerID)
	if err != nil {
		return nil, err
	}
	intents := metriclist.Intents{
		OnSort: func(c metriclist.Column) { rec.sorted = append(rec.sorted, c) },
		OnChange: func(metricKey string, opt maintenance.Key) {
			rec.changes = append(rec.changes, maintenanceChange{metric: metricKey, key: opt})
		},
		OnRemove:       func(metricKey string) { rec.removed = append(rec.removed, metricKey) },
		OnNoDataRemove: func() { rec.noData = true },
	}
	opts := []metriclist.Option{
		metriclist.WithCatalog(m.catalog),
		metriclist.WithLogger(m.log),
		metriclist.WithStrict(m.strict),
	}
	if menu != nil {
		opts = append(opts, metriclist.WithMenu(menu))
	}
	return metriclist.NewList(metriclist.Props{
		Items:       items,
		Sort:        m.sort,
		ShowStatus:  m.showStatus,
		NoDataCount: m.store.NoDataCount(triggerID),
		Now:         m.now(),
		Location:    m.loc,
	}, intents, opts...), nil
}

// apply turns recorded intents into model changes and store commands.
func (m *Model) apply(triggerID string, rec *intentLog) tea.Cmd {
	for _, c := range rec.sorted {
		m.sort = m.sort.Toggle(c)
	}

	var cmds []tea.Cmd
	s := m.store
	for _, c := range rec.changes {
		text := fmt.Sprintf("Maintenance for %s: %s", c.metric, maintenanceCaption(m.catalog, c.key))
		cmds = append(cmds, storeCmd(text, func() error {
			return s.SetMaintenance(triggerID, c.metric, c.key)
		}))
	}
	for _, metricKey := range rec.removed {
		cmds = append(cmds, storeCmd("Deleted "+metricKey, func() error {
			return s.RemoveMetric(triggerID, metricKey)
		}))
	}
	if rec.noData {
		cmds = append(cmds, func() tea.Msg {
			n, err := s.RemoveNoData(triggerID)
			return storeResultMsg{text: "Deleted " + util.Count(n, "NODATA metric", "NODATA metrics"), err: err}
		})
	}
	return tea.Batch(cmds...)
}

// selectedMetric returns the trigger id and metric key under the cursor.
func (m *Model) selectedMetric() (string, string, bool) {
	ts, ok := m.triggerScreen()
	if !ok {
		return "", "", false
	}
	l, err := m.metricList(ts.id, &intentLog{}, nil)
	if err != nil {
		return "", "", false
	}
	rows := l.Rows()
	if m.selected < 0 || m.selected >= len(rows) {
		return "", "", false
	}
	return ts.id, rows[m.selected].Key, true
}

func (m *Model) sortBy(c metriclist.Column) tea.Cmd {
	ts, ok := m.triggerScreen()
	if !ok {
		return nil
	}
	rec := &intentLog{}
	l, err := m.metricList(ts.id, rec, nil)
	if err != nil {
		return nil
	}
	l.Sort(c)
	return m.apply(ts.id, rec)
}

func (m *Model) openMaintenance() tea.Cmd {
	triggerID, metricKey, ok := m.selectedMetric()
	if !ok {
		return nil
	}
	rec := &intentLog{}
	capture := &menuCapture{}
	l, err := m.metricList(triggerID, rec, capture)
	if err != nil {
		return nil
	}
	if err := l.OpenMaintenance(metricKey); err != nil {
		m.setFlash(err.Error(), true)
		return nil
	}
	if !capture.shown {
		return nil
	}
	m.overlay = newMenuOverlay(capture.menu, capture.choose, triggerID, rec, m.width, m.height)
	return nil
}

func (m *Model) askDelete() {
	triggerID, metricKey, ok := m.selectedMetric()
	if !ok {
		return
	}
	m.confirm = &confirmPrompt{
		prompt: fmt.Sprintf("Delete %s? (y/N)", metricKey),
		action: func(m *Model) tea.Cmd {
			rec := &intentLog{}
			l, err := m.metricList(triggerID, rec, nil)
			if err != nil {
				return nil
			}
			l.Remove(metricKey)
			return m.apply(triggerID, rec)
		},
	}
}

func (m *Model) askDeleteNoData() {
	ts, ok := m.triggerScreen()
	if !ok {
		return
	}
	rec := &intentLog{}
	l, err := m.metricList(ts.id, rec, nil)
	if err != nil || !l.CanRemoveNoData() {
		return
	}
	n := l.Props().NoDataCount
	triggerID := ts.id
	m.confirm = &confirmPrompt{
		prompt: fmt.Sprintf("Delete all %d NODATA metrics? (y/N)", n),
		action: func(m *Model) tea.Cmd {
			l.RemoveNoData()
			return m.apply(triggerID, rec)
		},
	}
}

// updateOverlay routes a key to the open maintenance menu.
func (m *Model) updateOverlay(msg tea.KeyMsg) tea.Cmd {
	o := m.overlay
	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, overlayClose):
		m.overlay = nil
		return nil
	case key.Matches(msg, keys.Open):
		k, ok := o.selectedKey()
		m.overlay = nil
		if !ok {
			return nil
		}
		o.choose(k)
		return m.apply(o.triggerID, o.rec)
	}
	var cmd tea.Cmd
	o.list, cmd = o.list.Update(msg)
	return cmd
}
