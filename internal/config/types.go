package config

import (
	"time"

	"github.com/rileyhilliard/mdash/internal/metriclist"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Modes.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// MinRefresh is the shortest snapshot reload interval accepted.
const MinRefresh = 500 * time.Millisecond

// Config represents the complete .mdash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Snapshot is the path of the metric snapshot JSON.
	// Supports ~ and ${HOME}/${USER} expansion.
	Snapshot string `yaml:"snapshot" mapstructure:"snapshot"`

	// User is recorded as the start user when maintenance is set.
	User string `yaml:"user" mapstructure:"user"`

	// Timezone is an IANA name, or "Local".
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// Refresh is how often the dashboard re-reads the snapshot.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	Sort   SortConfig   `yaml:"sort" mapstructure:"sort"`
	Mode   string       `yaml:"mode" mapstructure:"mode"`
	Lock   LockConfig   `yaml:"lock" mapstructure:"lock"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// SortConfig is the initial sort of metric tables.
type SortConfig struct {
	// Column is one of state, name, event or value.
	Column     string `yaml:"column" mapstructure:"column"`
	Descending bool   `yaml:"descending" mapstructure:"descending"`
}

// LockConfig controls the lock taken around snapshot writes, so the
// dashboard and a concurrent command don't overwrite each other.
type LockConfig struct {
	// Timeout is how long a writer waits for the lock.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Stale is the age after which a left-over lock is removed. Zero
	// never removes it.
	Stale time.Duration `yaml:"stale" mapstructure:"stale"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level: "debug", "info", "warn" or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// File receives log output while the dashboard owns the terminal.
	// Empty discards it.
	File string `yaml:"file" mapstructure:"file"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Snapshot: "snapshot.json",
		User:     "${USER}",
		Timezone: "Local",
		Refresh:  5 * time.Second,
		Sort: SortConfig{
			Column: "name",
		},
		Mode: ModeProduction,
		Lock: LockConfig{
			Timeout: 5 * time.Second,
			Stale:   time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// Strict reports whether programming errors should panic instead of being
// logged.
func (c *Config) Strict() bool {
	return c.Mode == ModeDevelopment
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SortSpec returns the initial table sort. An invalid column falls back to
// the default sort; Validate reports it.
func (c *Config) SortSpec() metriclist.SortSpec {
	col, err := metriclist.ParseColumn(c.Sort.Column)
	if err != nil {
		return metriclist.DefaultSort()
	}
	return metriclist.SortSpec{Column: col, Descending: c.Sort.Descending}
}
