package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/mdash/internal/config"
	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metriclist"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `{
  "triggers": [
    {
      "id": "cpu",
      "name": "CPU load",
      "tags": ["prod", "web"],
      "metrics": {
        "web1.cpu": {"value": 1.5, "event_timestamp": 1700000000, "state": "OK"},
        "web2.cpu": {"state": "NODATA"},
        "web3.cpu": {"state": "NODATA"}
      }
    },
    {
      "id": "disk",
      "name": "Disk usage",
      "tags": ["prod"],
      "metrics": {
        "db1.disk": {"value": 80, "event_timestamp": 1700000100, "state": "WARN"},
        "db2.disk": {"state": "NODATA"}
      }
    }
  ]
}`

var testNow = time.Unix(1700000000, 0)

// testApp writes the snapshot fixture and returns an app using it.
func testApp(t *testing.T) *app {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(testSnapshot), 0644))

	cfg := config.DefaultConfig()
	cfg.Snapshot = path
	cfg.User = "tester"
	cfg.Timezone = "UTC"

	a, err := newApp(cfg, "", logger.Noop())
	require.NoError(t, err)

	oldNow := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = oldNow })
	return a
}

// withMachineMode turns on --json for one test.
func withMachineMode(t *testing.T) {
	t.Helper()
	old := machineMode
	machineMode = true
	t.Cleanup(func() { machineMode = old })
}

func reopen(t *testing.T, a *app) *store.Store {
	t.Helper()
	s, err := store.Open(a.cfg.Snapshot)
	require.NoError(t, err)
	return s
}

// fakeMenu records the menu it was shown and picks a fixed option.
type fakeMenu struct {
	pick  maintenance.Key
	shown *metriclist.MaintenanceMenu
	err   error
}

func (f *fakeMenu) Show(menu metriclist.MaintenanceMenu, choose func(maintenance.Key)) {
	f.shown = &menu
	if f.pick != "" {
		choose(f.pick)
	}
}

func (f *fakeMenu) Err() error {
	return f.err
}

func useMenu(t *testing.T, m metriclist.Menu) {
	t.Helper()
	old := newMenu
	newMenu = func() (metriclist.Menu, error) { return m, nil }
	t.Cleanup(func() { newMenu = old })
}
