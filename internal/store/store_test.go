package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/lock"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "triggers": [
    {
      "id": "cpu",
      "name": "CPU load",
      "metrics": {
        "web1.cpu": {"value": 1.5, "event_timestamp": 1700000000, "state": "OK"},
        "web2.cpu": {"state": "NODATA"},
        "web3.cpu": {"state": "NODATA",
                     "maintenance": 1700003600,
                     "maintenance_who": {"start_user": "ops", "start_time": 1700000000}}
      }
    }
  ]
}`

var fixedNow = time.Unix(1700000000, 0)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))
	return path
}

func openFixture(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithUser("alice")}, opts...)
	s, err := Open(writeFixture(t), opts...)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	s := openFixture(t)
	triggers := s.Triggers()
	require.Len(t, triggers, 1)
	assert.Equal(t, "CPU load", triggers[0].Name)
	assert.Len(t, triggers[0].Metrics, 3)
	assert.Equal(t, 2, s.NoDataCount("cpu"))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSnapshot))
}

func TestOpen_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Open(path)
	assert.True(t, errors.IsCode(err, errors.ErrSnapshot))
}

func TestMetrics_ReturnsCopy(t *testing.T) {
	s := openFixture(t)
	items, err := s.Metrics("cpu")
	require.NoError(t, err)

	*items["web1.cpu"].Value = 99
	delete(items, "web1.cpu")
	again, _ := s.Metrics("cpu")
	require.Contains(t, again, "web1.cpu")
	assert.Equal(t, 1.5, *again["web1.cpu"].Value)
}

func TestMetrics_UnknownTrigger(t *testing.T) {
	_, err := openFixture(t).Metrics("nope")
	assert.True(t, stderrors.Is(err, ErrTriggerNotFound))
	assert.Equal(t, 0, openFixture(t).NoDataCount("nope"))
}

func TestSetMaintenance(t *testing.T) {
	s := openFixture(t)

	require.NoError(t, s.SetMaintenance("cpu", "web1.cpu", maintenance.Hour))
	items, _ := s.Metrics("cpu")
	m := items["web1.cpu"]
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), m.Maintenance)
	assert.Equal(t, metric.Who{StartUser: "alice", StartTime: fixedNow.Unix()}, m.MaintenanceWho)
}

func TestSetMaintenance_OffClears(t *testing.T) {
	s := openFixture(t)

	require.NoError(t, s.SetMaintenance("cpu", "web3.cpu", maintenance.Off))
	items, _ := s.Metrics("cpu")
	assert.Equal(t, int64(0), items["web3.cpu"].Maintenance)
	assert.False(t, items["web3.cpu"].MaintenanceWho.Present())
}

func TestSetMaintenance_Errors(t *testing.T) {
	s := openFixture(t)

	err := s.SetMaintenance("cpu", "web1.cpu", "fortnight")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMaintenance))
	var unknown *maintenance.UnknownOptionError
	assert.True(t, stderrors.As(err, &unknown))

	assert.True(t, stderrors.Is(s.SetMaintenance("nope", "web1.cpu", maintenance.Day), ErrTriggerNotFound))
	assert.True(t, stderrors.Is(s.SetMaintenance("cpu", "nope", maintenance.Day), ErrMetricNotFound))
}

func TestRemoveMetric(t *testing.T) {
	s := openFixture(t)
	require.NoError(t, s.RemoveMetric("cpu", "web1.cpu"))
	items, _ := s.Metrics("cpu")
	assert.NotContains(t, items, "web1.cpu")

	assert.True(t, stderrors.Is(s.RemoveMetric("cpu", "web1.cpu"), ErrMetricNotFound))
}

func TestRemoveNoData(t *testing.T) {
	s := openFixture(t)
	n, err := s.RemoveNoData("cpu")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, _ := s.Metrics("cpu")
	assert.Equal(t, []string{"web1.cpu"}, keys(items))
	assert.Equal(t, 0, s.NoDataCount("cpu"))

	_, err = s.RemoveNoData("nope")
	assert.True(t, stderrors.Is(err, ErrTriggerNotFound))
}

func TestSave_RoundTrip(t *testing.T) {
	s := openFixture(t)
	require.NoError(t, s.SetMaintenance("cpu", "web1.cpu", maintenance.Day))
	require.NoError(t, s.RemoveMetric("cpu", "web2.cpu"))
	require.NoError(t, s.Save())

	reopened, err := Open(s.Path())
	require.NoError(t, err)
	items, err := reopened.Metrics("cpu")
	require.NoError(t, err)
	assert.Equal(t, []string{"web1.cpu", "web3.cpu"}, keys(items))
	assert.Equal(t, "alice", items["web1.cpu"].MaintenanceWho.StartUser)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestAutosave(t *testing.T) {
	s := openFixture(t, WithAutosave(true))
	require.NoError(t, s.RemoveMetric("cpu", "web1.cpu"))

	reopened, err := Open(s.Path())
	require.NoError(t, err)
	items, _ := reopened.Metrics("cpu")
	assert.NotContains(t, items, "web1.cpu")
}

func TestSave_KeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	tests := []struct {
		name string
		mode os.FileMode
	}{
		{name: "shared", mode: 0644},
		{name: "group writable", mode: 0664},
		{name: "owner only", mode: 0600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openFixture(t, WithAutosave(true))
			require.NoError(t, os.Chmod(s.Path(), tt.mode))

			require.NoError(t, s.SetMaintenance("cpu", "web1.cpu", maintenance.Hour))

			info, err := os.Stat(s.Path())
			require.NoError(t, err)
			assert.Equal(t, tt.mode, info.Mode().Perm())
		})
	}
}

func TestAutosave_ConcurrentReloadKeepsWrites(t *testing.T) {
	s := openFixture(t, WithAutosave(true),
		WithLock(lock.Config{Timeout: 5 * time.Second, Poll: time.Millisecond}, "test"))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = s.Reload()
			}
		}
	}()

	choices := []maintenance.Key{maintenance.Hour, maintenance.Day}
	var last maintenance.Key
	for i := 0; i < 200; i++ {
		last = choices[i%len(choices)]
		require.NoError(t, s.SetMaintenance("cpu", "web1.cpu", last))
	}
	close(stop)
	wg.Wait()

	final, err := Open(s.Path())
	require.NoError(t, err)
	items, err := final.Metrics("cpu")
	require.NoError(t, err)
	want, _ := maintenance.Default().ExpiryFor(last, fixedNow)
	assert.Equal(t, want, items["web1.cpu"].Maintenance)
}

func TestSave_InMemory(t *testing.T) {
	s := New(&metric.Snapshot{})
	err := s.Save()
	assert.True(t, errors.IsCode(err, errors.ErrStore))
}

func TestReloadIfChanged(t *testing.T) {
	s := openFixture(t)

	changed, err := s.ReloadIfChanged()
	require.NoError(t, err)
	assert.False(t, changed)

	updated := `{"triggers": [{"id": "cpu", "metrics": {}}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(updated), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(s.Path(), later, later))

	changed, err = s.ReloadIfChanged()
	require.NoError(t, err)
	assert.True(t, changed)
	items, _ := s.Metrics("cpu")
	assert.Empty(t, items)
}

func TestLockedWriters_DoNotLoseChanges(t *testing.T) {
	path := writeFixture(t)
	cfg := lock.Config{Timeout: time.Second, Poll: 10 * time.Millisecond}
	clock := WithClock(func() time.Time { return fixedNow })

	a, err := Open(path, clock, WithAutosave(true), WithLock(cfg, "a"))
	require.NoError(t, err)
	b, err := Open(path, clock, WithAutosave(true), WithLock(cfg, "b"))
	require.NoError(t, err)

	require.NoError(t, a.SetMaintenance("cpu", "web1.cpu", maintenance.Hour))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	// b still holds the old view; the locked write rereads the file first.
	require.NoError(t, b.RemoveMetric("cpu", "web2.cpu"))

	final, err := Open(path)
	require.NoError(t, err)
	items, err := final.Metrics("cpu")
	require.NoError(t, err)
	assert.Equal(t, []string{"web1.cpu", "web3.cpu"}, keys(items))
	assert.Equal(t, fixedNow.Unix()+3600, items["web1.cpu"].Maintenance)
	assert.NoDirExists(t, lock.DirFor(path))
}

func TestLockedWrite_TimesOut(t *testing.T) {
	path := writeFixture(t)
	held, err := lock.TryAcquire(path, lock.DefaultConfig(), "other")
	require.NoError(t, err)
	defer held.Release()

	s, err := Open(path, WithAutosave(true), WithLock(lock.Config{Timeout: 30 * time.Millisecond, Poll: 10 * time.Millisecond}, "me"))
	require.NoError(t, err)

	err = s.RemoveMetric("cpu", "web2.cpu")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLock))

	again, err := Open(path)
	require.NoError(t, err)
	items, _ := again.Metrics("cpu")
	assert.Len(t, items, 3)
}

func keys(items map[string]metric.Metric) []string {
	out := make([]string, 0, len(items))
	for k := range items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
