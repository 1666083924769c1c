package watchdog

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	apperrors "service-watchdog/internal/watchdog/errors"
)

// InstanceLock is the cross-process singleton guard: an exclusive file lock
// plus a pid file so operator commands can find the running daemon.
type InstanceLock struct {
	lock    *flock.Flock
	pidFile string
}

func NewInstanceLock(lockFile string) *InstanceLock {
	return &InstanceLock{
		lock:    flock.New(lockFile),
		pidFile: lockFile + ".pid",
	}
}

// Acquire takes the exclusive lock without blocking. If another daemon
// already holds it, the error names the running instance's pid.
func (l *InstanceLock) Acquire() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("InstanceLock.Acquire: %w", err)
	}
	if !locked {
		if pid, err := l.ReadPID(); err == nil {
			return fmt.Errorf("%w (pid %d)", apperrors.ErrAlreadyRunning, pid)
		}
		return apperrors.ErrAlreadyRunning
	}
	if err := os.WriteFile(l.pidFile, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		l.lock.Unlock()
		return fmt.Errorf("InstanceLock.Acquire: writing pid file: %w", err)
	}
	return nil
}

// Release drops the lock and removes the pid file.
func (l *InstanceLock) Release() error {
	if err := os.Remove(l.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("InstanceLock.Release: %w", err)
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("InstanceLock.Release: %w", err)
	}
	return nil
}

// Held reports whether some process currently holds the lock, without
// keeping it: a successful trial acquisition is undone immediately.
func (l *InstanceLock) Held() (bool, error) {
	locked, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("InstanceLock.Held: %w", err)
	}
	if locked {
		if err := l.lock.Unlock(); err != nil {
			return false, fmt.Errorf("InstanceLock.Held: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// ReadPID returns the pid recorded by the running daemon.
func (l *InstanceLock) ReadPID() (int, error) {
	b, err := os.ReadFile(l.pidFile)
	if err != nil {
		return 0, fmt.Errorf("InstanceLock.ReadPID: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("InstanceLock.ReadPID: %w", err)
	}
	return pid, nil
}
