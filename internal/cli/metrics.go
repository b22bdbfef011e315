package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/rileyhilliard/mdash/internal/ui"
	"github.com/rileyhilliard/mdash/internal/util"
)

// pickTrigger is swapped in tests; it asks the user for a trigger.
var pickTrigger = func(triggers []metric.Trigger) (*metric.Trigger, error) {
	if !ui.CanPrompt() {
		return nil, errors.New(errors.ErrConfig,
			"Trigger ID required",
			"Pass a trigger ID, see 'mdash triggers'.")
	}
	return ui.PickTrigger(triggers)
}

type triggerJSON struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Metrics int      `json:"metrics"`
	NoData  int      `json:"nodata"`
}

// triggersCommand lists the triggers of the snapshot.
func triggersCommand(w io.Writer, a *app) error {
	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	triggers := s.Triggers()

	if machineMode {
		out := make([]triggerJSON, len(triggers))
		for i, t := range triggers {
			out[i] = triggerJSON{
				ID:      t.ID,
				Name:    t.Name,
				Tags:    append([]string{}, t.Tags...),
				Metrics: len(t.Metrics),
				NoData:  metric.CountState(t.Metrics, metric.StateNoData),
			}
		}
		return WriteJSONSuccess(w, out)
	}

	if len(triggers) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render("No triggers in snapshot"))
		return nil
	}
	rows := make([][]string, len(triggers))
	for i, t := range triggers {
		rows[i] = []string{
			t.ID,
			t.Name,
			strconv.Itoa(len(t.Metrics)),
			strconv.Itoa(metric.CountState(t.Metrics, metric.StateNoData)),
			util.JoinOrDefault(t.Tags, "-"),
		}
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "ID", Width: columnWidth("ID", rows, 0)},
		{Title: "Name", Width: columnWidth("Name", rows, 1)},
		{Title: "Metrics", Width: 7},
		{Title: "NODATA", Width: 6},
		{Title: "Tags", Width: columnWidth("Tags", rows, 4)},
	}, rows))
	return nil
}

func columnWidth(title string, rows [][]string, col int) int {
	w := len(title)
	for _, r := range rows {
		if len(r[col]) > w {
			w = len(r[col])
		}
	}
	return w
}

// metricsOptions holds the table flags of the metrics command.
type metricsOptions struct {
	Sort   string
	Desc   bool
	Status bool
}

type metricJSON struct {
	Key         string       `json:"key"`
	State       metric.State `json:"state"`
	LastEvent   string       `json:"last_event"`
	Value       string       `json:"value"`
	Maintenance string       `json:"maintenance"`
	SetBy       string       `json:"set_by,omitempty"`
}

type metricsJSON struct {
	Trigger    string       `json:"trigger"`
	Sort       string       `json:"sort"`
	Descending bool         `json:"descending"`
	NoData     int          `json:"nodata"`
	Metrics    []metricJSON `json:"metrics"`
}

// metricsCommand prints the metric list of a trigger.
func metricsCommand(w io.Writer, a *app, triggerID string, opts metricsOptions) error {
	spec, err := resolveSort(opts.Sort, opts.Desc, a.cfg.SortSpec())
	if err != nil {
		return err
	}

	s, err := a.openStore(false)
	if err != nil {
		return err
	}

	if triggerID == "" {
		t, err := pickTrigger(s.Triggers())
		if err != nil {
			return err
		}
		if t == nil {
			return nil
		}
		triggerID = t.ID
	}

	l, err := a.buildList(s, triggerID, spec, opts.Status, metriclist.Intents{})
	if err != nil {
		return err
	}

	if machineMode {
		rows := l.Rows()
		out := metricsJSON{
			Trigger:    triggerID,
			Sort:       string(spec.Column),
			Descending: spec.Descending,
			NoData:     l.Props().NoDataCount,
			Metrics:    make([]metricJSON, len(rows)),
		}
		for i, r := range rows {
			out.Metrics[i] = metricJSON{
				Key:         r.Key,
				State:       r.Status,
				LastEvent:   r.EventTime,
				Value:       r.Value,
				Maintenance: r.Maintenance,
				SetBy:       r.Attribution,
			}
		}
		return WriteJSONSuccess(w, out)
	}

	fmt.Fprintln(w, ui.RenderMetricTable(l))
	return nil
}

// buildList creates the metric list view model for one trigger.
func (a *app) buildList(s *store.Store, triggerID string, spec metriclist.SortSpec, showStatus bool, intents metriclist.Intents, opts ...metriclist.Option) (*metriclist.List, error) {
	items, err := s.Metrics(triggerID)
	if err != nil {
		return nil, triggerNotFound(triggerID, err)
	}
	opts = append([]metriclist.Option{
		metriclist.WithLogger(a.log),
		metriclist.WithStrict(a.cfg.Strict()),
	}, opts...)
	return metriclist.NewList(metriclist.Props{
		Items:       items,
		Sort:        spec,
		ShowStatus:  showStatus,
		NoDataCount: s.NoDataCount(triggerID),
		Now:         nowFunc(),
		Location:    a.loc,
	}, intents, opts...), nil
}

func triggerNotFound(id string, err error) error {
	return errors.WrapWithCode(err, errors.ErrStore,
		fmt.Sprintf("Trigger '%s' not found", id),
		"See 'mdash triggers' for the available IDs.")
}
