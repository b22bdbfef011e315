package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".mdash.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/mdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'mdash config init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .mdash.yaml in current directory
// 3. .mdash.yaml in parent directories (stops at home)
// 4. ~/.config/mdash/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if
// none exists. The returned path is empty when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg := DefaultConfig()
		expandPaths(cfg)
		return cfg, "", nil
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	expandPaths(cfg)
	// Relative snapshot paths are relative to the config file.
	if cfg.Snapshot != "" && !filepath.IsAbs(cfg.Snapshot) {
		cfg.Snapshot = filepath.Join(filepath.Dir(path), cfg.Snapshot)
	}
	return cfg, nil
}

// setDefaults registers the defaults so partially filled files still unmarshal
// to a complete config.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("snapshot", cfg.Snapshot)
	v.SetDefault("user", cfg.User)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("refresh", cfg.Refresh.String())
	v.SetDefault("sort.column", cfg.Sort.Column)
	v.SetDefault("sort.descending", cfg.Sort.Descending)
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("lock.timeout", cfg.Lock.Timeout.String())
	v.SetDefault("lock.stale", cfg.Lock.Stale.String())
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("output.color", cfg.Output.Color)
}

func expandPaths(cfg *Config) {
	cfg.Snapshot = ExpandTilde(Expand(cfg.Snapshot))
	cfg.User = Expand(cfg.User)
	cfg.Log.File = ExpandTilde(Expand(cfg.Log.File))
}
