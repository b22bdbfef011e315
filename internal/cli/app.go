package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/mdash/internal/config"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/lock"
	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/rileyhilliard/mdash/internal/ui"
)

// nowFunc is the clock used for maintenance times; tests pin it.
var nowFunc = time.Now

// app carries the loaded configuration shared by commands.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     logger.Logger
	loc     *time.Location
}

// loadApp loads and validates config, applying the global flags.
func loadApp() (*app, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if snapshotFlag != "" {
		cfg.Snapshot = config.ExpandTilde(snapshotFlag)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if noColor {
		ui.DisableColors()
	} else {
		ui.ApplyColorMode(cfg.Output.Color)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.SetLevel(level)
	log := logger.New(os.Stderr, "[mdash]", level == "debug")
	logger.SetDefault(log)

	return newApp(cfg, path, log)
}

// newApp builds an app from an already validated config.
func newApp(cfg *config.Config, path string, log logger.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Unknown timezone %q", cfg.Timezone),
			"Use an IANA name like Europe/Berlin, or Local")
	}
	if log == nil {
		log = logger.Noop()
	}
	return &app{cfg: cfg, cfgPath: path, log: log, loc: loc}, nil
}

// openStore opens the configured snapshot. Autosave writes every change
// back to the file.
func (a *app) openStore(autosave bool) (*store.Store, error) {
	return a.openStoreWithLogger(a.log, autosave)
}

func (a *app) openStoreWithLogger(log logger.Logger, autosave bool) (*store.Store, error) {
	return store.Open(a.cfg.Snapshot,
		store.WithUser(a.cfg.User),
		store.WithLogger(log),
		store.WithAutosave(autosave),
		store.WithClock(nowFunc),
		store.WithLock(a.lockConfig(), commandLine()),
	)
}

func (a *app) lockConfig() lock.Config {
	cfg := lock.DefaultConfig()
	cfg.Timeout = a.cfg.Lock.Timeout
	cfg.Stale = a.cfg.Lock.Stale
	return cfg
}

// commandLine names this process in lock info.
func commandLine() string {
	return strings.TrimSpace("mdash " + strings.Join(os.Args[1:], " "))
}

// fileLogger opens the configured log file for the dashboard, where
// stderr would tear the alt screen. It returns a noop logger when no file
// is set.
func (a *app) fileLogger() (logger.Logger, io.Closer, error) {
	if a.cfg.Log.File == "" {
		return logger.Noop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.Log.File), 0o755); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't create log directory for %s", a.cfg.Log.File), "")
	}
	f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't open log file %s", a.cfg.Log.File),
			"Check log.file in your config")
	}
	return logger.New(f, "[dashboard]", a.cfg.Log.Level == "debug" || verbose), f, nil
}
