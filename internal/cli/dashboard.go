package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/mdash/internal/config"
	"github.com/rileyhilliard/mdash/internal/dashboard"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"golang.org/x/term"
)

// dashboardCommand starts the TUI dashboard.
func dashboardCommand(path, intervalFlag string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs a terminal",
			"Use 'mdash metrics <trigger>' for plain output.")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	model, closeLog, err := newDashboardModel(a, path, intervalFlag)
	if err != nil {
		return err
	}
	defer closeLog()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newDashboardModel opens the store and builds the dashboard model. The
// returned func closes the log file.
func newDashboardModel(a *app, path, intervalFlag string) (dashboard.Model, func(), error) {
	interval, err := parseInterval(intervalFlag, a.cfg.Refresh)
	if err != nil {
		return dashboard.Model{}, nil, err
	}
	if err := checkInterval(interval); err != nil {
		return dashboard.Model{}, nil, err
	}

	log, closer, err := a.fileLogger()
	if err != nil {
		return dashboard.Model{}, nil, err
	}
	closeLog := func() { _ = closer.Close() }

	s, err := a.openStoreWithLogger(log, true)
	if err != nil {
		closeLog()
		return dashboard.Model{}, nil, err
	}

	model := dashboard.NewModel(dashboard.Options{
		Store:    s,
		Path:     path,
		Interval: interval,
		Sort:     a.cfg.SortSpec(),
		Location: a.loc,
		Catalog:  maintenance.Default(),
		Logger:   log,
		Strict:   a.cfg.Strict(),
		Settings: dashboardSettings(a),
	})
	return model, closeLog, nil
}

// dashboardSettings lists config values for the settings page.
func dashboardSettings(a *app) []dashboard.Setting {
	source := a.cfgPath
	if source == "" {
		source = "defaults"
	}
	settings := []dashboard.Setting{
		{Key: "config", Value: source},
		{Key: "user", Value: a.cfg.User},
		{Key: "mode", Value: a.cfg.Mode},
		{Key: "log.level", Value: a.cfg.Log.Level},
	}
	if a.cfg.Log.File != "" {
		settings = append(settings, dashboard.Setting{Key: "log.file", Value: a.cfg.Log.File})
	}
	if a.cfg.Mode == config.ModeDevelopment {
		settings = append(settings, dashboard.Setting{Key: "strict", Value: "on"})
	}
	return settings
}
