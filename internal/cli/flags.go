package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/mdash/internal/config"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/metriclist"
)

func invalidIntervalError(flag string, err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
		"Try something like 5s, 2m, or 500ms.")
}

// checkInterval rejects reload intervals below config.MinRefresh.
func checkInterval(d time.Duration) error {
	if d < config.MinRefresh {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", d),
			fmt.Sprintf("Use at least %s.", config.MinRefresh))
	}
	return nil
}

// resolveSort combines the --sort and --desc flags with the configured sort.
// --desc alone flips the configured column to descending.
func resolveSort(flag string, desc bool, configured metriclist.SortSpec) (metriclist.SortSpec, error) {
	if flag == "" {
		if desc {
			configured.Descending = true
		}
		return configured, nil
	}
	col, err := metriclist.ParseColumn(strings.ToLower(flag))
	if err != nil {
		return metriclist.SortSpec{}, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Unknown sort column '%s'", flag),
			"Use one of: state, name, event, value.")
	}
	return metriclist.SortSpec{Column: col, Descending: desc}, nil
}

// defaultConfigPath is where "config init" writes without --config.
func defaultConfigPath(dir string) string {
	return filepath.Join(dir, config.ConfigFileName)
}
