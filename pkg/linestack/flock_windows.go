//go:build windows

package linestack

import (
	"fmt"
	"math"

	"golang.org/x/sys/windows"
)

// flock locks the whole file through LockFileEx on a single handle.
type flock struct {
	fd   uintptr
	name string
}

func newLock(fd uintptr, name string) locker {
	return &flock{fd: fd, name: name}
}

// Lock blocks until an exclusive lock on the file is acquired.
func (l *flock) Lock() error {
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(windows.Handle(l.fd), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, math.MaxUint32, math.MaxUint32, ol)
	if err != nil {
		return fmt.Errorf("cannot acquire lock on file %q: %w", l.name, err)
	}
	return nil
}

// Unlock releases the lock held on the file.
func (l *flock) Unlock() error {
	ol := new(windows.Overlapped)
	if err := windows.UnlockFileEx(windows.Handle(l.fd), 0, math.MaxUint32, math.MaxUint32, ol); err != nil {
		return fmt.Errorf("cannot unlock lock on file %q: %w", l.name, err)
	}
	return nil
}
