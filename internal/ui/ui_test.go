package ui

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestStateColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, StateColor(metric.StateOK))
	assert.Equal(t, ColorWarning, StateColor(metric.StateWarn))
	assert.Equal(t, ColorError, StateColor(metric.StateError))
	assert.Equal(t, ColorNeonPurple, StateColor(metric.StateNoData))
	assert.Equal(t, ColorNeonOrange, StateColor(metric.StateException))
	assert.Equal(t, ColorMuted, StateColor("WHATEVER"))
}

func TestColorConstants(t *testing.T) {
	for _, c := range []lipgloss.Color{
		ColorNeonPink, ColorNeonCyan, ColorNeonPurple, ColorNeonGreen, ColorNeonOrange,
		ColorNeonAmber, ColorDeepVoid, ColorDarkSurface, ColorGlassBorder,
		ColorSuccess, ColorError, ColorWarning, ColorInfo,
		ColorPrimary, ColorSecondary, ColorMuted,
	} {
		s := string(c)
		assert.Len(t, s, 7, s)
		assert.Equal(t, byte('#'), s[0], s)
	}
}

func TestStateBadge(t *testing.T) {
	assert.Equal(t, "● OK", StateBadge(metric.StateOK))
	assert.Equal(t, "◌ NODATA", StateBadge(metric.StateNoData))
	assert.Equal(t, "○ ?", StateBadge(""))
	assert.Equal(t, SymbolFail, StateSymbol(metric.StateException))
}

func TestDisableColors(t *testing.T) {
	assert.NotPanics(t, DisableColors)
	assert.Equal(t, "test", SuccessStyle().Render("test"))
}

func TestRenderSimpleTable(t *testing.T) {
	out := RenderSimpleTable(
		[]TableColumn{{Title: "Trigger", Width: 15}, {Title: "State", Width: 10}},
		[][]string{{"cpu", "OK"}, {"disk", "NODATA"}},
	)
	for _, s := range []string{"Trigger", "State", "cpu", "NODATA"} {
		assert.Contains(t, out, s)
	}
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "x", Width: 3}}, nil))
}

func TestRenderMetricTable(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	items := map[string]metric.Metric{
		"web1.cpu": {Value: metric.Float(2.345), EventTimestamp: 1700000000, State: metric.StateOK},
		"web2.cpu": {
			State:          metric.StateNoData,
			Maintenance:    now.Unix() + 3600,
			MaintenanceWho: metric.Who{StartUser: "ops", StartTime: 1700000000},
		},
	}
	l := metriclist.NewList(metriclist.Props{
		Items:      items,
		Sort:       metriclist.SortSpec{Column: metriclist.ColumnValue, Descending: true},
		ShowStatus: true,
		Now:        now,
		Location:   time.UTC,
	}, metriclist.Intents{})

	out := RenderMetricTable(l)
	for _, s := range []string{"State", "Name", "Last event", "Value ↓", "Maintenance", "web1.cpu", "2.35", "NODATA", "an hour", "by ops"} {
		assert.Contains(t, out, s)
	}
	assert.Less(t, strings.Index(out, "web1.cpu"), strings.Index(out, "web2.cpu"))
}

func TestRenderMetricTable_Empty(t *testing.T) {
	l := metriclist.NewList(metriclist.Props{}, metriclist.Intents{})
	assert.Equal(t, "No metrics", RenderMetricTable(l))
}

func sampleMenu() metriclist.MaintenanceMenu {
	return metriclist.MaintenanceMenu{
		Metric:  "web1.cpu",
		Caption: "Maintenance",
		Entries: []metriclist.MenuEntry{{Key: maintenance.Off, Caption: "Off"}, {Key: maintenance.Day, Caption: "1 day"}},
		Header:  []string{"Maintenance was set", "by ops", "at November 14, 22:13:20"},
	}
}

func TestHuhMenu_Choose(t *testing.T) {
	var got []maintenance.Key
	m := &HuhMenu{run: func(f *huh.Form, selected *string) error {
		require.NotNil(t, f)
		*selected = string(maintenance.Day)
		return nil
	}}

	m.Show(sampleMenu(), func(k maintenance.Key) { got = append(got, k) })
	assert.Equal(t, []maintenance.Key{maintenance.Day}, got)
	assert.NoError(t, m.Err())
}

func TestHuhMenu_NothingSelected(t *testing.T) {
	called := false
	m := &HuhMenu{run: func(*huh.Form, *string) error { return nil }}
	m.Show(sampleMenu(), func(maintenance.Key) { called = true })
	assert.False(t, called)
}

func TestHuhMenu_Aborted(t *testing.T) {
	called := false
	m := &HuhMenu{run: func(*huh.Form, *string) error { return huh.ErrUserAborted }}
	m.Show(sampleMenu(), func(maintenance.Key) { called = true })
	assert.False(t, called)
	assert.True(t, errors.Is(m.Err(), huh.ErrUserAborted))
}

func TestHuhMenu_WithList(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	var changes []string
	l := metriclist.NewList(
		metriclist.Props{Items: map[string]metric.Metric{"web1.cpu": {}}, Now: now},
		metriclist.Intents{OnChange: func(m string, k maintenance.Key) { changes = append(changes, m+"="+string(k)) }},
		metriclist.WithMenu(&HuhMenu{run: func(_ *huh.Form, selected *string) error {
			*selected = string(maintenance.Week)
			return nil
		}}),
	)

	require.NoError(t, l.OpenMaintenance("web1.cpu"))
	assert.Equal(t, []string{"web1.cpu=week"}, changes)
}

func TestMaintenanceForm(t *testing.T) {
	var selected string
	assert.NotNil(t, MaintenanceForm(sampleMenu(), &selected))

	noHeader := sampleMenu()
	noHeader.Header = nil
	assert.NotNil(t, MaintenanceForm(noHeader, &selected))
}

func TestTriggerItem(t *testing.T) {
	item := triggerItem{trigger: metric.Trigger{
		ID:   "cpu",
		Name: "CPU load",
		Tags: []string{"prod"},
		Metrics: map[string]metric.Metric{
			"a": {State: metric.StateNoData},
			"b": {State: metric.StateOK},
		},
	}}

	assert.Equal(t, "CPU load", item.Title())
	assert.Equal(t, "cpu | 2 metrics | 1 NODATA | [prod]", item.Description())
	assert.Contains(t, item.FilterValue(), "prod")

	assert.Equal(t, "disk", triggerItem{trigger: metric.Trigger{ID: "disk"}}.Title())
}

func TestTriggerPickerModel(t *testing.T) {
	triggers := []metric.Trigger{{ID: "a"}, {ID: "b"}}
	model := NewTriggerPickerModel(triggers)
	assert.Nil(t, model.Selected())

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	picked := next.(TriggerPickerModel).Selected()
	require.NotNil(t, picked)
	assert.Equal(t, "a", picked.ID)
	assert.Empty(t, next.View())
}

func TestTriggerPickerModel_Cancel(t *testing.T) {
	model := NewTriggerPickerModel([]metric.Trigger{{ID: "a"}, {ID: "b"}})
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next.(TriggerPickerModel).Selected())
}

func TestPickTrigger_Shortcuts(t *testing.T) {
	_, err := PickTrigger(nil)
	assert.Error(t, err)

	only := []metric.Trigger{{ID: "solo"}}
	got, err := PickTrigger(only)
	require.NoError(t, err)
	assert.Equal(t, "solo", got.ID)
}
