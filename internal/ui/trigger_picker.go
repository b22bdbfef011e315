package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/metric"
)

// triggerItem implements list.Item for the Bubbles list component.
type triggerItem struct {
	trigger metric.Trigger
}

func (i triggerItem) Title() string {
	if i.trigger.Name != "" {
		return i.trigger.Name
	}
	return i.trigger.ID
}

func (i triggerItem) Description() string {
	parts := []string{i.trigger.ID, fmt.Sprintf("%d metrics", len(i.trigger.Metrics))}
	if n := metric.CountState(i.trigger.Metrics, metric.StateNoData); n > 0 {
		parts = append(parts, fmt.Sprintf("%d NODATA", n))
	}
	if len(i.trigger.Tags) > 0 {
		parts = append(parts, "["+strings.Join(i.trigger.Tags, ", ")+"]")
	}
	return strings.Join(parts, " | ")
}

func (i triggerItem) FilterValue() string {
	values := []string{i.trigger.ID, i.trigger.Name}
	values = append(values, i.trigger.Tags...)
	return strings.Join(values, " ")
}

// TriggerPickerModel is a Bubble Tea model for selecting a trigger.
type TriggerPickerModel struct {
	list     list.Model
	selected *metric.Trigger
	quitting bool
}

type triggerPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var triggerPickerKeys = triggerPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewTriggerPickerModel creates a new trigger picker model.
func NewTriggerPickerModel(triggers []metric.Trigger) TriggerPickerModel {
	items := make([]list.Item, len(triggers))
	for i, t := range triggers {
		items[i] = triggerItem{trigger: t}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorNeonPink)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 80, 15)
	l.Title = "Select a trigger"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	return TriggerPickerModel{list: l}
}

// Init implements tea.Model.
func (m TriggerPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TriggerPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, triggerPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(triggerItem); ok {
				t := item.trigger
				m.selected = &t
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, triggerPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m TriggerPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected trigger, or nil if cancelled.
func (m TriggerPickerModel) Selected() *metric.Trigger {
	return m.selected
}

// PickTrigger displays an interactive picker and returns the chosen trigger.
// Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickTrigger(triggers []metric.Trigger) (*metric.Trigger, error) {
	return PickTriggerWithOutput(triggers, os.Stdout, os.Stdin)
}

// PickTriggerWithOutput displays the trigger picker using custom I/O.
func PickTriggerWithOutput(triggers []metric.Trigger, output io.Writer, input io.Reader) (*metric.Trigger, error) {
	if len(triggers) == 0 {
		return nil, errors.New(errors.ErrSnapshot, "No triggers to pick from", "Check that the snapshot file has a 'triggers' list.")
	}

	if len(triggers) == 1 {
		return &triggers[0], nil
	}

	p := tea.NewProgram(
		NewTriggerPickerModel(triggers),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSnapshot, "Trigger picker failed", "Pass the trigger id as an argument instead.")
	}

	if m, ok := finalModel.(TriggerPickerModel); ok {
		return m.Selected(), nil
	}
	return nil, nil
}
