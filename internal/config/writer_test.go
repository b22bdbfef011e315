package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	cfg := DefaultConfig()
	cfg.User = "ops"
	cfg.Refresh = 1500 * time.Millisecond
	cfg.Snapshot = "/data/snap.json"
	cfg.Lock.Timeout = 2 * time.Second

	require.NoError(t, Write(path, cfg, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# mdash configuration"))
	assert.Contains(t, string(data), "refresh: 1.5s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ops", loaded.User)
	assert.Equal(t, 1500*time.Millisecond, loaded.Refresh)
	assert.Equal(t, "/data/snap.json", loaded.Snapshot)
	assert.Equal(t, 2*time.Second, loaded.Lock.Timeout)
	assert.Equal(t, time.Minute, loaded.Lock.Stale)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("user: keep\n"), 0644))

	err := Write(path, DefaultConfig(), false)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	require.NoError(t, Write(path, DefaultConfig(), true))
}

func TestSetKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `# my settings
user: ops # who sets maintenance
sort:
  column: name
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, SetKey(path, "sort.column", "value"))
	require.NoError(t, SetKey(path, "sort.descending", "true"))
	require.NoError(t, SetKey(path, "log.level", "debug"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# my settings")
	assert.Contains(t, string(data), "# who sets maintenance")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "value", cfg.Sort.Column)
	assert.True(t, cfg.Sort.Descending)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ops", cfg.User)
}

func TestSetKey_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("sort:\n  column: name\n"), 0644))

	assert.Error(t, SetKey(path, "sort", "value"))
	assert.Error(t, SetKey(path, "sort.column.x", "value"))
	assert.Error(t, SetKey(filepath.Join(t.TempDir(), "missing.yaml"), "user", "x"))
}
