package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/rileyhilliard/mdash/internal/ui"
	"github.com/rileyhilliard/mdash/internal/util"
)

// newMenu returns the interactive maintenance menu; tests swap it.
var newMenu = func() (metriclist.Menu, error) {
	if !ui.CanPrompt() {
		return nil, errors.New(errors.ErrMaintenance,
			"Maintenance option required",
			"Pass one of: "+optionList()+".")
	}
	return ui.NewHuhMenu(), nil
}

func optionList() string {
	keys := maintenance.Default().Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

type maintenanceJSON struct {
	Trigger string `json:"trigger"`
	Metric  string `json:"metric"`
	Option  string `json:"option"`
	Expiry  int64  `json:"maintenance"`
	Until   string `json:"until,omitempty"`
	SetBy   string `json:"set_by,omitempty"`
}

// maintenanceSetCommand applies a maintenance option to one metric. An
// empty option opens the interactive menu.
func maintenanceSetCommand(w io.Writer, a *app, triggerID, metricKey, option string) error {
	catalog := maintenance.Default()
	var key maintenance.Key
	if option != "" {
		key = maintenance.Key(strings.ToLower(option))
		if _, err := catalog.Lookup(key); err != nil {
			return errors.WrapWithCode(err, errors.ErrMaintenance,
				fmt.Sprintf("Unknown maintenance option '%s'", option),
				"Use one of: "+optionList()+".")
		}
	}

	s, err := a.openStore(true)
	if err != nil {
		return err
	}

	var (
		chosen   maintenance.Key
		applied  bool
		applyErr error
	)
	intents := metriclist.Intents{
		OnChange: func(m string, k maintenance.Key) {
			chosen, applied = k, true
			applyErr = s.SetMaintenance(triggerID, m, k)
		},
	}

	var opts []metriclist.Option
	var menu metriclist.Menu
	if option == "" {
		if menu, err = newMenu(); err != nil {
			return err
		}
		opts = append(opts, metriclist.WithMenu(menu))
	}

	l, err := a.buildList(s, triggerID, a.cfg.SortSpec(), false, intents, append(opts, metriclist.WithCatalog(catalog))...)
	if err != nil {
		return err
	}
	if _, ok := l.Props().Items[metricKey]; !ok {
		return metricNotFound(triggerID, metricKey)
	}

	if option == "" {
		if err := l.OpenMaintenance(metricKey); err != nil {
			return err
		}
		if e, ok := menu.(interface{ Err() error }); ok && e.Err() != nil {
			if stderrors.Is(e.Err(), huh.ErrUserAborted) {
				fmt.Fprintln(w, ui.MutedStyle().Render("Cancelled"))
				return nil
			}
			return e.Err()
		}
	} else {
		l.ChooseMaintenance(metricKey, key)
	}

	if !applied {
		fmt.Fprintln(w, ui.MutedStyle().Render("No change"))
		return nil
	}
	if applyErr != nil {
		return storeError(triggerID, metricKey, applyErr)
	}

	items, err := s.Metrics(triggerID)
	if err != nil {
		return triggerNotFound(triggerID, err)
	}
	m := items[metricKey]
	return reportMaintenance(w, a, triggerID, metricKey, chosen, m)
}

func reportMaintenance(w io.Writer, a *app, triggerID, metricKey string, key maintenance.Key, m metric.Metric) error {
	caption, _ := maintenance.Default().Caption(key)
	until := ""
	if m.Maintenance > 0 {
		until = metric.FormatUnix(m.Maintenance, a.loc)
	}

	if machineMode {
		out := maintenanceJSON{
			Trigger: triggerID,
			Metric:  metricKey,
			Option:  string(key),
			Expiry:  m.Maintenance,
			Until:   until,
			SetBy:   m.MaintenanceWho.StartUser,
		}
		return WriteJSONSuccess(w, out)
	}

	if m.Maintenance == 0 {
		fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s Maintenance cleared for %s", ui.SymbolSuccess, metricKey)))
		return nil
	}
	fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s %s in maintenance for %s (until %s)",
		ui.SymbolSuccess, metricKey, caption, until)))
	return nil
}

// deleteCommand removes one metric from a trigger.
func deleteCommand(w io.Writer, a *app, triggerID, metricKey string) error {
	s, err := a.openStore(true)
	if err != nil {
		return err
	}

	var removeErr error
	l, err := a.buildList(s, triggerID, a.cfg.SortSpec(), false, metriclist.Intents{
		OnRemove: func(m string) { removeErr = s.RemoveMetric(triggerID, m) },
	})
	if err != nil {
		return err
	}
	if _, ok := l.Props().Items[metricKey]; !ok {
		return metricNotFound(triggerID, metricKey)
	}

	l.Remove(metricKey)
	if removeErr != nil {
		return storeError(triggerID, metricKey, removeErr)
	}

	if machineMode {
		return WriteJSONSuccess(w, map[string]string{"trigger": triggerID, "deleted": metricKey})
	}
	fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s Deleted %s from %s", ui.SymbolSuccess, metricKey, triggerID)))
	return nil
}

// nodataDeleteCommand deletes all NODATA metrics of a trigger. A single
// NODATA metric is only deleted with force.
func nodataDeleteCommand(w io.Writer, a *app, triggerID string, force bool) error {
	s, err := a.openStore(true)
	if err != nil {
		return err
	}

	var (
		removed   int
		removeErr error
	)
	removeAll := func() { removed, removeErr = s.RemoveNoData(triggerID) }
	l, err := a.buildList(s, triggerID, a.cfg.SortSpec(), false, metriclist.Intents{
		OnNoDataRemove: removeAll,
	})
	if err != nil {
		return err
	}

	count := l.Props().NoDataCount
	switch {
	case count == 0:
		// nothing to do
	case l.RemoveNoData():
	case force:
		removeAll()
	default:
		return errors.New(errors.ErrStore,
			fmt.Sprintf("Only one NODATA metric in '%s'", triggerID),
			fmt.Sprintf("Use --force, or 'mdash delete %s <metric>'.", triggerID))
	}
	if removeErr != nil {
		return errors.WrapWithCode(removeErr, errors.ErrStore,
			fmt.Sprintf("Can't delete NODATA metrics of '%s'", triggerID), "")
	}

	if machineMode {
		return WriteJSONSuccess(w, map[string]interface{}{"trigger": triggerID, "deleted": removed})
	}
	if removed == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render(fmt.Sprintf("No NODATA metrics in %s", triggerID)))
		return nil
	}
	fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s Deleted %s from %s", ui.SymbolSuccess, util.Count(removed, "NODATA metric", "NODATA metrics"), triggerID)))
	return nil
}

func metricNotFound(triggerID, metricKey string) error {
	return errors.WrapWithCode(fmt.Errorf("%w: %s", store.ErrMetricNotFound, metricKey), errors.ErrStore,
		fmt.Sprintf("Metric '%s' not found in '%s'", metricKey, triggerID),
		fmt.Sprintf("See 'mdash metrics %s'.", triggerID))
}

func storeError(triggerID, metricKey string, err error) error {
	if stderrors.Is(err, store.ErrMetricNotFound) {
		return metricNotFound(triggerID, metricKey)
	}
	if stderrors.Is(err, store.ErrTriggerNotFound) {
		return triggerNotFound(triggerID, err)
	}
	return errors.WrapWithCode(err, errors.ErrStore,
		fmt.Sprintf("Can't update %s/%s", triggerID, metricKey), "")
}
