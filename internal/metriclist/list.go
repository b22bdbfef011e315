// Package metriclist turns a trigger's metric mapping into display rows and
// forwards user actions on the table as intents to the data owner.
//
// Everything here is a pure function of its inputs: the caller supplies the
// metric snapshot, the sort spec, the NODATA count and the current time, and
// receives rows plus callbacks. The list never mutates the snapshot.
package metriclist

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
)

// Row is one rendered metric line.
type Row struct {
	Key         string
	Status      metric.State
	EventTime   string
	Value       string
	Maintenance string
	// Attribution is "by {user} at {time}", empty when unknown.
	Attribution string
}

// BuildRows renders items in spec order. A record with missing fields still
// produces a row: absent values read as metric.NoValue and a zero event
// timestamp formats as the epoch.
func BuildRows(items map[string]metric.Metric, spec SortSpec, now time.Time, loc *time.Location) []Row {
	keys := Order(items, spec)
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, buildRow(k, items[k], now, loc))
	}
	return rows
}

func buildRow(key string, m metric.Metric, now time.Time, loc *time.Location) Row {
	attribution, _ := maintenance.Attribution(m.MaintenanceWho, loc)
	return Row{
		Key:         key,
		Status:      m.State,
		EventTime:   metric.FormatUnix(m.EventTimestamp, loc),
		Value:       metric.RoundValue(m.Value),
		Maintenance: maintenance.Describe(m.Maintenance, now),
		Attribution: attribution,
	}
}

// Intents are the outward requests a list can emit. OnChange and OnRemove
// are required; a nil OnSort disables sorting and a nil OnNoDataRemove hides
// the bulk delete action.
type Intents struct {
	OnSort         func(column Column)
	OnChange       func(metricKey string, option maintenance.Key)
	OnRemove       func(metricKey string)
	OnNoDataRemove func()
}

// MenuEntry is a selectable line of the maintenance menu.
type MenuEntry struct {
	Key     maintenance.Key
	Caption string
}

// MaintenanceMenu describes the choices offered for one metric.
type MaintenanceMenu struct {
	Metric string
	// Caption labels the control that opens the menu.
	Caption string
	Entries []MenuEntry
	// Header holds the "who set it" lines shown after a separator; nil when
	// the attribution is unknown.
	Header []string
}

// Menu presents a MaintenanceMenu and reports the chosen entry through
// choose. Implementations may call choose later, or never if the user
// dismisses the menu.
type Menu interface {
	Show(menu MaintenanceMenu, choose func(option maintenance.Key))
}

// Props is the input snapshot for one render of the list.
type Props struct {
	Items      map[string]metric.Metric
	Sort       SortSpec
	ShowStatus bool
	// NoDataCount is the caller-supplied number of NODATA metrics.
	NoDataCount int
	Now         time.Time
	Location    *time.Location
}

// List is the view-model for a metric table.
type List struct {
	props   Props
	intents Intents
	menu    Menu
	catalog *maintenance.Catalog
	log     logger.Logger
	strict  bool
}

// Option configures a List.
type Option func(*List)

// WithMenu sets the menu used by OpenMaintenance.
func WithMenu(m Menu) Option {
	return func(l *List) { l.menu = m }
}

// WithCatalog replaces the default maintenance catalog.
func WithCatalog(c *maintenance.Catalog) Option {
	return func(l *List) { l.catalog = c }
}

// WithLogger sets the logger used for recovered errors.
func WithLogger(log logger.Logger) Option {
	return func(l *List) { l.log = log }
}

// WithStrict makes unknown maintenance options panic instead of being
// logged and ignored.
func WithStrict(strict bool) Option {
	return func(l *List) { l.strict = strict }
}

// NewList creates a list view-model over props.
func NewList(props Props, intents Intents, opts ...Option) *List {
	l := &List{
		props:   props,
		intents: intents,
		catalog: maintenance.Default(),
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.props.Location == nil {
		l.props.Location = time.UTC
	}
	return l
}

// Props returns the snapshot the list was built from.
func (l *List) Props() Props {
	return l.props
}

// Rows returns the display rows in sort order.
func (l *List) Rows() []Row {
	return BuildRows(l.props.Items, l.props.Sort, l.props.Now, l.props.Location)
}

// Header is one column heading of the table.
type Header struct {
	Column   Column
	Label    string
	Sortable bool
	// Active marks the column the table is currently sorted by.
	Active     bool
	Descending bool
}

// Arrow returns the sort direction marker for an active header.
func (h Header) Arrow() string {
	if !h.Active {
		return ""
	}
	if h.Descending {
		return "↓"
	}
	return "↑"
}

// Headers returns the column headings. The state column has no label and
// is only present when ShowStatus is set.
func (l *List) Headers() []Header {
	var cols []Column
	if l.props.ShowStatus {
		cols = append(cols, ColumnState)
	}
	cols = append(cols, ColumnName, ColumnEvent, ColumnValue)

	headers := make([]Header, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, Header{
			Column:     c,
			Label:      columnLabels[c],
			Sortable:   l.intents.OnSort != nil,
			Active:     l.props.Sort.Column == c,
			Descending: l.props.Sort.Descending,
		})
	}
	return headers
}

var columnLabels = map[Column]string{
	ColumnState: "",
	ColumnName:  "Name",
	ColumnEvent: "Last event",
	ColumnValue: "Value",
}

// Sort forwards a column click. It reports false when sorting is not wired.
func (l *List) Sort(c Column) bool {
	if l.intents.OnSort == nil {
		return false
	}
	l.intents.OnSort(c)
	return true
}

// CanRemoveNoData reports whether the "Delete all NODATA" action is offered:
// only with a handler and more than one NODATA metric.
func (l *List) CanRemoveNoData() bool {
	return l.intents.OnNoDataRemove != nil && l.props.NoDataCount > 1
}

// RemoveNoData forwards the bulk delete. It reports false when the action
// is not offered.
func (l *List) RemoveNoData() bool {
	if !l.CanRemoveNoData() {
		return false
	}
	l.intents.OnNoDataRemove()
	return true
}

// Remove forwards a delete for one metric.
func (l *List) Remove(metricKey string) {
	if l.intents.OnRemove != nil {
		l.intents.OnRemove(metricKey)
	}
}

// ChooseMaintenance forwards a maintenance choice for metricKey. Keys that
// are not in the catalog are logged and dropped, or panic in strict mode.
func (l *List) ChooseMaintenance(metricKey string, key maintenance.Key) {
	if _, err := l.catalog.Lookup(key); err != nil {
		l.report(err)
		return
	}
	if l.intents.OnChange != nil {
		l.intents.OnChange(metricKey, key)
	}
}

// MaintenanceMenu builds the menu for metricKey. It reports false when the
// metric is not in the list.
func (l *List) MaintenanceMenu(metricKey string) (MaintenanceMenu, bool) {
	m, ok := l.props.Items[metricKey]
	if !ok {
		return MaintenanceMenu{}, false
	}

	menu := MaintenanceMenu{
		Metric:  metricKey,
		Caption: maintenance.Describe(m.Maintenance, l.props.Now),
	}
	for _, o := range l.catalog.Options(l.props.Now) {
		menu.Entries = append(menu.Entries, MenuEntry{Key: o.Key, Caption: l.caption(o.Key)})
	}
	if m.MaintenanceWho.Present() {
		menu.Header = []string{
			maintenance.AttributionTitle,
			"by " + m.MaintenanceWho.StartUser,
			"at " + metric.FormatUnix(m.MaintenanceWho.StartTime, l.props.Location),
		}
	}
	return menu, true
}

// OpenMaintenance shows the maintenance menu for metricKey on the
// configured Menu and routes the choice back through ChooseMaintenance.
func (l *List) OpenMaintenance(metricKey string) error {
	if l.menu == nil {
		return fmt.Errorf("no menu configured")
	}
	menu, ok := l.MaintenanceMenu(metricKey)
	if !ok {
		return fmt.Errorf("metric %q is not in the list", metricKey)
	}
	l.menu.Show(menu, func(key maintenance.Key) {
		l.ChooseMaintenance(metricKey, key)
	})
	return nil
}

// caption looks up a catalog caption, falling back to the raw key.
func (l *List) caption(key maintenance.Key) string {
	c, err := l.catalog.Caption(key)
	if err != nil {
		l.report(err)
		return string(key)
	}
	return c
}

func (l *List) report(err error) {
	if l.strict {
		panic(err)
	}
	l.log.Warn("%v", err)
}
