package config

import (
	"fmt"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/metriclist"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but mdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade mdash or lower the version field.")
	}

	if _, err := metriclist.ParseColumn(cfg.Sort.Column); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("sort.column '%s' isn't a column", cfg.Sort.Column),
			"Use one of: state, name, event, value.")
	}

	if _, err := cfg.Location(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("timezone '%s' isn't a known zone", cfg.Timezone),
			"Use an IANA name like 'Europe/Berlin', or 'Local'.")
	}

	if cfg.Refresh < MinRefresh {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh %s is too short", cfg.Refresh),
			fmt.Sprintf("Use at least %s.", MinRefresh))
	}

	if cfg.Lock.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("lock.timeout %s must be positive", cfg.Lock.Timeout),
			"Try something like 5s.")
	}
	if cfg.Lock.Stale < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("lock.stale %s can't be negative", cfg.Lock.Stale),
			"Use 0 to never remove stale locks.")
	}

	if err := validateMode(cfg.Mode); err != nil {
		return err
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your .mdash.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .mdash.yaml.")
	}

	return nil
}

func validateMode(mode string) error {
	switch mode {
	case "", ModeProduction, ModeDevelopment:
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("mode '%s' isn't valid", mode),
		"Use 'production' or 'development'.")
}

// validateLog checks log configuration.
func validateLog(l LogConfig) error {
	valid := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !valid[l.Level] {
		return fmt.Errorf("log.level '%s' isn't valid - use 'debug', 'info', 'warn', or 'error'", l.Level)
	}
	return nil
}

// validateOutput checks output configuration.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}
