// Package store owns the metric snapshot on disk. It applies the intents the
// metric list emits (maintenance changes, metric deletes, bulk NODATA
// deletes) and writes the result back atomically.
package store

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/lock"
	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/metric"
)

var (
	ErrTriggerNotFound = stderrors.New("trigger not found")
	ErrMetricNotFound  = stderrors.New("metric not found")
)

// Store is a file-backed snapshot. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	snap     *metric.Snapshot
	modTime  time.Time
	catalog  *maintenance.Catalog
	log      logger.Logger
	user     string
	now      func() time.Time
	autosave bool
	lockCfg  *lock.Config
	command  string
}

// Option configures a Store.
type Option func(*Store)

// WithUser sets the name recorded as the maintenance start user.
func WithUser(user string) Option {
	return func(s *Store) { s.user = user }
}

// WithLogger sets the logger for decode warnings and writes.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithCatalog replaces the default maintenance catalog.
func WithCatalog(c *maintenance.Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAutosave writes the snapshot after every successful mutation.
func WithAutosave(on bool) Option {
	return func(s *Store) { s.autosave = on }
}

// WithLock makes autosaving mutations take a file lock next to the
// snapshot. Under the lock the store rereads a file changed by another
// writer before applying the change. command names the holder.
func WithLock(cfg lock.Config, command string) Option {
	return func(s *Store) {
		s.lockCfg = &cfg
		s.command = command
	}
}

// New wraps an in-memory snapshot. Without a path Save is an error.
func New(snap *metric.Snapshot, opts ...Option) *Store {
	if snap == nil {
		snap = &metric.Snapshot{}
	}
	s := &Store{
		snap:    snap,
		catalog: maintenance.Default(),
		log:     logger.Noop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the snapshot at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(nil, opts...)
	s.path = path
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the backing file.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSnapshot,
			fmt.Sprintf("Can't read snapshot %s", s.path),
			"Check the snapshot path in your config or pass --snapshot")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSnapshot,
			fmt.Sprintf("Can't read snapshot %s", s.path),
			"Check file permissions")
	}
	snap, err := metric.Decode(data, s.log)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.modTime = info.ModTime()
	s.mu.Unlock()
	return nil
}

// ReloadIfChanged re-reads the file only when its modification time moved.
// It reports whether a reload happened.
func (s *Store) ReloadIfChanged() (bool, error) {
	if s.path == "" {
		return false, nil
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrSnapshot,
			fmt.Sprintf("Can't read snapshot %s", s.path), "")
	}
	s.mu.Lock()
	same := info.ModTime().Equal(s.modTime)
	s.mu.Unlock()
	if same {
		return false, nil
	}
	return true, s.Reload()
}

// Snapshot returns a deep copy of the current data.
func (s *Store) Snapshot() metric.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := metric.Snapshot{
		Triggers:      make([]metric.Trigger, len(s.snap.Triggers)),
		Patterns:      append([]string(nil), s.snap.Patterns...),
		Notifications: append([]metric.Notification(nil), s.snap.Notifications...),
	}
	for i, t := range s.snap.Triggers {
		out.Triggers[i] = copyTrigger(t)
	}
	return out
}

// Triggers returns copies of all triggers in file order.
func (s *Store) Triggers() []metric.Trigger {
	return s.Snapshot().Triggers
}

// Trigger returns a copy of one trigger.
func (s *Store) Trigger(id string) (metric.Trigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.snap.Trigger(id)
	if !ok {
		return metric.Trigger{}, fmt.Errorf("%w: %s", ErrTriggerNotFound, id)
	}
	return copyTrigger(*t), nil
}

// Metrics returns a copy of the metric mapping of a trigger.
func (s *Store) Metrics(triggerID string) (map[string]metric.Metric, error) {
	t, err := s.Trigger(triggerID)
	if err != nil {
		return nil, err
	}
	return t.Metrics, nil
}

// NoDataCount returns the number of NODATA metrics of a trigger.
func (s *Store) NoDataCount(triggerID string) int {
	items, err := s.Metrics(triggerID)
	if err != nil {
		return 0
	}
	return metric.CountState(items, metric.StateNoData)
}

// SetMaintenance applies a catalog option to one metric. Clearing options
// also drop the attribution; other options record the configured user and
// the current time.
func (s *Store) SetMaintenance(triggerID, metricKey string, key maintenance.Key) error {
	now := s.now()
	expiry, err := s.catalog.ExpiryFor(key, now)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrMaintenance,
			fmt.Sprintf("Can't set maintenance on %s", metricKey),
			fmt.Sprintf("Pick one of: %v", s.catalog.Keys()))
	}

	return s.mutate(triggerID, func(t *metric.Trigger) error {
		m, ok := t.Metrics[metricKey]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMetricNotFound, metricKey)
		}
		m.Maintenance = expiry
		if expiry == 0 {
			m.MaintenanceWho = metric.Who{}
		} else {
			m.MaintenanceWho = metric.Who{StartUser: s.user, StartTime: now.Unix()}
		}
		t.Metrics[metricKey] = m
		s.log.Info("maintenance %s on %s/%s", key, triggerID, metricKey)
		return nil
	})
}

// RemoveMetric deletes one metric from a trigger.
func (s *Store) RemoveMetric(triggerID, metricKey string) error {
	return s.mutate(triggerID, func(t *metric.Trigger) error {
		if _, ok := t.Metrics[metricKey]; !ok {
			return fmt.Errorf("%w: %s", ErrMetricNotFound, metricKey)
		}
		delete(t.Metrics, metricKey)
		s.log.Info("removed %s/%s", triggerID, metricKey)
		return nil
	})
}

// RemoveNoData deletes every NODATA metric of a trigger and returns how
// many were removed.
func (s *Store) RemoveNoData(triggerID string) (int, error) {
	removed := 0
	err := s.mutate(triggerID, func(t *metric.Trigger) error {
		for k, m := range t.Metrics {
			if m.State == metric.StateNoData {
				delete(t.Metrics, k)
				removed++
			}
		}
		s.log.Info("removed %d NODATA metrics from %s", removed, triggerID)
		return nil
	})
	return removed, err
}

// mutate runs fn on the live trigger under the mutex, then autosaves. With
// WithLock the whole read-modify-write holds the file lock.
func (s *Store) mutate(triggerID string, fn func(t *metric.Trigger) error) error {
	persist := s.autosave && s.path != ""
	if persist && s.lockCfg != nil {
		l, err := lock.Acquire(s.path, *s.lockCfg, s.command)
		if err != nil {
			return err
		}
		defer func() {
			if err := l.Release(); err != nil {
				s.log.Warn("release lock: %v", err)
			}
		}()
		if changed, err := s.ReloadIfChanged(); err != nil {
			return err
		} else if changed {
			s.log.Debug("snapshot changed on disk, reloaded before write")
		}
	}

	s.mu.Lock()
	t, ok := s.snap.Trigger(triggerID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTriggerNotFound, triggerID)
	}
	if t.Metrics == nil {
		t.Metrics = make(map[string]metric.Metric)
	}
	if err := fn(t); err != nil {
		s.mu.Unlock()
		return err
	}
	if !persist {
		s.mu.Unlock()
		return nil
	}
	// Encode before unlocking so a concurrent Reload can't swap the
	// mutated snapshot out from under the write.
	data, err := metric.Encode(s.snap)
	s.mu.Unlock()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Can't encode snapshot", "")
	}
	return s.write(data)
}

// Save writes the snapshot to its file through a temp file and rename, so
// readers never see a partial write.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New(errors.ErrStore, "Snapshot has no backing file", "")
	}

	s.mu.Lock()
	data, err := metric.Encode(s.snap)
	s.mu.Unlock()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Can't encode snapshot", "")
	}
	return s.write(data)
}

// write replaces the snapshot file with data. The replacement keeps the
// existing file's permissions, or 0644 for a new file.
func (s *Store) write(data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".mdash-snapshot-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Can't write snapshot to %s", dir), "Check directory permissions")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore, "Can't write snapshot", "")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore,
			"Can't set snapshot permissions", "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore, "Can't write snapshot", "")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Can't replace %s", s.path), "")
	}

	if info, err := os.Stat(s.path); err == nil {
		s.mu.Lock()
		s.modTime = info.ModTime()
		s.mu.Unlock()
	}
	s.log.Debug("saved snapshot to %s", s.path)
	return nil
}

func copyTrigger(t metric.Trigger) metric.Trigger {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	out.Metrics = make(map[string]metric.Metric, len(t.Metrics))
	for k, m := range t.Metrics {
		if m.Value != nil {
			m.Value = metric.Float(*m.Value)
		}
		out.Metrics[k] = m
	}
	return out
}
