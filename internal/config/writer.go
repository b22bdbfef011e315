package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/mdash/internal/errors"
	"gopkg.in/yaml.v3"
)

const fileHeader = `# mdash configuration
# Run 'mdash dashboard' to open the metric dashboard
# Run 'mdash config show' to see the effective settings

`

// fileConfig is the on-disk shape. Durations are written as strings so
// the file stays hand-editable.
type fileConfig struct {
	Version  int          `yaml:"version"`
	Snapshot string       `yaml:"snapshot"`
	User     string       `yaml:"user"`
	Timezone string       `yaml:"timezone"`
	Refresh  string       `yaml:"refresh"`
	Sort     SortConfig   `yaml:"sort"`
	Mode     string       `yaml:"mode"`
	Lock     fileLock     `yaml:"lock"`
	Log      LogConfig    `yaml:"log"`
	Output   OutputConfig `yaml:"output"`
}

type fileLock struct {
	Timeout string `yaml:"timeout"`
	Stale   string `yaml:"stale"`
}

// Marshal renders cfg as YAML with a header comment.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version:  cfg.Version,
		Snapshot: cfg.Snapshot,
		User:     cfg.User,
		Timezone: cfg.Timezone,
		Refresh:  cfg.Refresh.String(),
		Sort:     cfg.Sort,
		Mode:     cfg.Mode,
		Lock:     fileLock{Timeout: cfg.Lock.Timeout.String(), Stale: cfg.Lock.Stale.String()},
		Log:      cfg.Log,
		Output:   cfg.Output,
	}

	var buf strings.Builder
	buf.WriteString(fileHeader)
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&fc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}
	encoder.Close()
	return []byte(buf.String()), nil
}

// Write saves cfg to path. An existing file is only replaced with force.
func Write(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite it")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to create %s", filepath.Dir(path)),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}
	return nil
}

// SetKey sets a dotted key (e.g. "sort.column") to a scalar value in the
// config file at path, keeping the rest of the file and its comments.
// Missing intermediate mappings are created.
func SetKey(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next := findMapValue(node, part)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part}, next)
		}
		if next.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section", part)
		}
		node = next
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		if existing.Kind != yaml.ScalarNode {
			return fmt.Errorf("'%s' is a section, not a value", key)
		}
		existing.Value = value
		existing.Tag = ""
		existing.Style = 0
	} else {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: leaf},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
