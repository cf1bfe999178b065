// Package lock provides an advisory, non-blocking exclusive file lock used
// to prevent two orchestrator instances from operating on the same spec
// folder concurrently.
package lock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrContention is returned when the lock is already held by another process.
var ErrContention = errors.New("lock: already held by another process")

// Lock holds an acquired advisory exclusive lock. It is released by Close,
// and for the process lifetime otherwise (the fd closes on process exit).
type Lock struct {
	path string
	f    *os.File
}

// Acquire attempts to take a non-blocking exclusive lock on path, creating
// it if necessary. On contention it returns ErrContention immediately; it
// never blocks.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("lock: opening %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrContention
		}
		return nil, fmt.Errorf("lock: flock %s: %w", path, err)
	}

	return &Lock{path: path, f: f}, nil
}

// Close releases the lock and closes the underlying file descriptor.
// Idempotent and safe to call multiple times.
func (l *Lock) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	cerr := l.f.Close()
	l.f = nil
	if err != nil {
		return err
	}
	return cerr
}
