package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"golang.org/x/term"
)

// HuhMenu shows a maintenance menu as an interactive huh select. It
// implements metriclist.Menu for the command line.
type HuhMenu struct {
	// run executes the form bound to selected; tests replace it.
	run func(form *huh.Form, selected *string) error
	err error
}

// NewHuhMenu creates a menu that prompts on the terminal.
func NewHuhMenu() *HuhMenu {
	return &HuhMenu{run: func(f *huh.Form, _ *string) error { return f.Run() }}
}

// CanPrompt reports whether stdin is a terminal, so a menu can be shown.
func CanPrompt() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Show prompts for an entry and passes the chosen key to choose. A
// cancelled prompt chooses nothing; Err reports why.
func (m *HuhMenu) Show(menu metriclist.MaintenanceMenu, choose func(maintenance.Key)) {
	m.err = nil
	var selected string
	form := MaintenanceForm(menu, &selected)
	if err := m.run(form, &selected); err != nil {
		m.err = err
		return
	}
	if selected == "" {
		return
	}
	choose(maintenance.Key(selected))
}

// Err returns the error from the last Show, e.g. huh.ErrUserAborted.
func (m *HuhMenu) Err() error {
	return m.err
}

// MaintenanceForm builds the huh form for menu, writing the chosen key to
// selected. The attribution header, when present, follows the options as a
// note.
func MaintenanceForm(menu metriclist.MaintenanceMenu, selected *string) *huh.Form {
	options := make([]huh.Option[string], len(menu.Entries))
	for i, e := range menu.Entries {
		options[i] = huh.NewOption(e.Caption, string(e.Key))
	}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Maintenance for %s", menu.Metric)).
			Description(fmt.Sprintf("Currently: %s", menu.Caption)).
			Options(options...).
			Value(selected),
	}
	if len(menu.Header) > 0 {
		fields = append(fields, huh.NewNote().
			Title(menu.Header[0]).
			Description(strings.Join(menu.Header[1:], "\n")))
	}

	return huh.NewForm(huh.NewGroup(fields...))
}
