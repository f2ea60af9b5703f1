package linestack

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/mr-karan/linestack/internal/stackfile"
	"github.com/zerodha/logf"
)

// locker is the advisory lock bound to the stack's descriptor.
type locker interface {
	Lock() error
	Unlock() error
}

// Stack is a LIFO of newline terminated records persisted in a single file.
// Every mutation takes an exclusive advisory lock on the file so several
// processes (or several Stacks in one process) can share the same path.
//
// A Stack is not safe for concurrent use by multiple goroutines.
type Stack struct {
	lo      logf.Logger
	bufPool sync.Pool // Pool of byte buffers used for writing.
	opts    *Options

	f      *stackfile.File
	lock   locker
	closed bool
}

// initLogger initializes logger instance.
func initLogger(debug bool) logf.Logger {
	opts := logf.Opts{EnableCaller: true}
	if debug {
		opts.Level = logf.DebugLevel
	}
	return logf.New(opts)
}

// Open opens the stack stored at path, creating an empty file if it doesn't
// exist. No lock is taken until the first operation.
//
// A rejected Config fails with an error wrapping ErrInvalidConfig, before any
// file is touched. Every other failure is an *Error.
func Open(path string, cfg ...Config) (*Stack, error) {
	opts := DefaultOptions()
	for _, c := range cfg {
		if err := c(opts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	lo := initLogger(opts.debug)
	if opts.logger != nil {
		lo = *opts.logger
	}

	f, err := stackfile.Open(path, opts.fileMode)
	if err != nil {
		return nil, fileErr("open", err)
	}

	return &Stack{
		lo:   lo,
		opts: opts,
		f:    f,
		lock: newLock(f.Fd(), path),
		bufPool: sync.Pool{New: func() any {
			return bytes.NewBuffer([]byte{})
		}},
	}, nil
}

// Path returns the path of the underlying file.
func (s *Stack) Path() string {
	return s.f.Name()
}

// Close closes the file descriptor. The content of the file is untouched.
func (s *Stack) Close() error {
	if s.closed {
		return fileErr("close", os.ErrClosed)
	}
	s.closed = true

	if err := s.f.Close(); err != nil {
		return fileErr("close", err)
	}
	return nil
}

// withLock runs fn while holding the exclusive lock and releases the lock on
// every return path. An unlock failure is reported only when fn succeeded.
func (s *Stack) withLock(op string, fn func() error) (err error) {
	// The descriptor the lock is bound to is gone.
	if s.closed {
		return fileErr(op, os.ErrClosed)
	}

	if err := s.lock.Lock(); err != nil {
		return lockErr(op, err)
	}

	defer func() {
		uerr := s.lock.Unlock()
		if uerr == nil {
			return
		}
		if err != nil {
			s.lo.Error("error releasing lock", "op", op, "path", s.f.Name(), "error", uerr)
			return
		}
		err = lockErr(op, uerr)
	}()

	return fn()
}

// sync flushes the file to disk if configured to do so.
func (s *Stack) sync(op string) error {
	if !s.opts.alwaysFSync {
		return nil
	}
	if err := s.f.Sync(); err != nil {
		return fileErr(op, err)
	}
	return nil
}

// Push appends rec as the new top of the stack. rec must not contain a
// newline: one would split it into two records on the next Pop.
func (s *Stack) Push(rec string) error {
	buf := s.bufPool.Get().(*bytes.Buffer)
	defer func() {
		// Don't keep buffers grown by unusually large records around.
		if buf.Cap() <= maxPooledBuffer {
			s.bufPool.Put(buf)
		}
	}()
	buf.Reset()

	buf.WriteString(rec)
	buf.WriteByte(newline)

	return s.withLock("push", func() error {
		offset, err := s.f.Append(buf.Bytes())
		if err != nil {
			return fileErr("push", err)
		}

		s.lo.Debug("pushed record", "path", s.f.Name(), "offset", offset, "size", buf.Len())
		return s.sync("push")
	})
}

// Pop removes the most recently pushed record and returns it. ok is false if
// the stack is empty. Empty records are never returned: they are skipped and
// discarded along with the record that precedes them.
//
// The record is removed from the file before it is decoded, so a record that
// is not valid UTF-8 is lost and reported with ErrUTF8.
func (s *Stack) Pop() (string, bool, error) {
	var rec []byte

	err := s.withLock("pop", func() error {
		size, err := s.f.Size()
		if err != nil {
			return fileErr("pop", err)
		}
		if size == 0 {
			return nil
		}

		r, start, err := lastRecord(s.f, size, s.opts.windowSize)
		if err != nil {
			return fileErr("pop", err)
		}

		if err := s.f.Truncate(start); err != nil {
			return fileErr("pop", err)
		}

		s.lo.Debug("popped record", "path", s.f.Name(), "offset", start, "size", len(r), "removed", size-start)
		rec = r
		return s.sync("pop")
	})
	if err != nil {
		return "", false, err
	}

	if len(rec) == 0 {
		return "", false, nil
	}
	if !utf8.Valid(rec) {
		return "", false, utf8Err("pop", fmt.Errorf("record of %d bytes is not valid utf-8", len(rec)))
	}

	return string(rec), true, nil
}

// Clear discards every record in the stack.
func (s *Stack) Clear() error {
	return s.withLock("clear", func() error {
		if err := s.f.Truncate(0); err != nil {
			return fileErr("clear", err)
		}

		s.lo.Debug("cleared stack", "path", s.f.Name())
		return s.sync("clear")
	})
}
