// Package lock serializes writers of a snapshot file. The lock is a
// directory next to the file, created with mkdir so only one process can
// hold it, and carries an info.json naming the holder.
package lock

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/mdash/internal/errors"
)

// Config controls waiting and stale-lock cleanup.
type Config struct {
	// Timeout is how long Acquire waits for a held lock.
	Timeout time.Duration
	// Stale is the holder age after which a lock is removed. Zero keeps
	// locks until they are released.
	Stale time.Duration
	// Poll is the retry interval while waiting.
	Poll time.Duration
}

// DefaultConfig waits five seconds and clears locks older than a minute.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second, Stale: time.Minute, Poll: 50 * time.Millisecond}
}

// Lock is a held lock on one file.
type Lock struct {
	Dir  string    // lock directory, <file>.lock
	Info *LockInfo // the holder (us)
}

// DirFor returns the lock directory guarding target.
func DirFor(target string) string {
	return target + ".lock"
}

// TryAcquire takes the lock once. It returns ErrLocked when another
// process holds a lock that is not stale.
func TryAcquire(target string, cfg Config, command string) (*Lock, error) {
	dir := DirFor(target)
	infoFile := filepath.Join(dir, "info.json")

	if isStale(infoFile, cfg.Stale) {
		_ = os.RemoveAll(dir)
	}

	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			fmt.Sprintf("Can't create lock %s", dir),
			"Check permissions of the snapshot directory")
	}

	info := NewLockInfo(command)
	data, err := info.Marshal()
	if err == nil {
		err = os.WriteFile(infoFile, data, 0o644)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Failed to write lock info file",
			"Check disk space and permissions")
	}
	return &Lock{Dir: dir, Info: info}, nil
}

// Acquire takes the lock, retrying until cfg.Timeout.
func Acquire(target string, cfg Config, command string) (*Lock, error) {
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultConfig().Poll
	}
	deadline := time.Now().Add(cfg.Timeout)

	for {
		l, err := TryAcquire(target, cfg, command)
		if !stderrors.Is(err, ErrLocked) {
			return l, err
		}
		if time.Now().After(deadline) {
			return nil, errors.WrapWithCode(err, errors.ErrLock,
				fmt.Sprintf("Timed out waiting for lock after %s", cfg.Timeout),
				fmt.Sprintf("Lock held by: %s. Remove %s if that process is gone.", Holder(target), DirFor(target)))
		}
		time.Sleep(cfg.Poll)
	}
}

// Release removes the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.RemoveAll(l.Dir); err != nil {
		return errors.WrapWithCode(err, errors.ErrLock,
			fmt.Sprintf("Failed to remove lock directory: %s", l.Dir), "")
	}
	return nil
}

// Holder describes who holds the lock on target.
func Holder(target string) string {
	data, err := os.ReadFile(filepath.Join(DirFor(target), "info.json"))
	if err != nil {
		return "unknown"
	}
	info, err := ParseLockInfo(data)
	if err != nil {
		return "unknown"
	}
	return info.String()
}

func isStale(infoFile string, threshold time.Duration) bool {
	if threshold <= 0 {
		return false
	}
	data, err := os.ReadFile(infoFile)
	if err != nil {
		// mkdir happened but info.json is not written yet, or there is no lock
		return false
	}
	info, err := ParseLockInfo(data)
	if err != nil {
		return false
	}
	return info.Age() > threshold
}
