//go:build !windows

package linestack

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// flock is an advisory lock on a single open descriptor. flock(2) locks
// belong to the open file description, so two descriptors on the same path
// exclude each other even inside one process.
type flock struct {
	fd   uintptr
	name string
}

func newLock(fd uintptr, name string) locker {
	return &flock{fd: fd, name: name}
}

// Lock blocks until an exclusive lock on the file is acquired.
func (l *flock) Lock() error {
	for {
		err := unix.Flock(int(l.fd), unix.LOCK_EX)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("cannot acquire lock on file %q: %w", l.name, err)
		}
		return nil
	}
}

// Unlock releases the lock held on the file.
func (l *flock) Unlock() error {
	if err := unix.Flock(int(l.fd), unix.LOCK_UN); err != nil {
		return fmt.Errorf("cannot unlock lock on file %q: %w", l.name, err)
	}
	return nil
}
