package linestack

import (
	"errors"
	"fmt"
)

// Kind identifies the collaborator an error originated from.
type Kind int

const (
	KindFile Kind = iota + 1 // Filesystem call failed.
	KindLock                 // Acquiring or releasing the advisory lock failed.
	KindUTF8                 // A popped record was not valid UTF-8.
)

var (
	ErrFile = errors.New("file error")
	ErrLock = errors.New("locking error")
	ErrUTF8 = errors.New("utf8 error")

	// ErrInvalidConfig is returned by Open for a rejected Config. It is not
	// an *Error: nothing was attempted on the file.
	ErrInvalidConfig = errors.New("invalid config")
)

func (k Kind) sentinel() error {
	switch k {
	case KindFile:
		return ErrFile
	case KindLock:
		return ErrLock
	case KindUTF8:
		return ErrUTF8
	}
	return nil
}

// Error is returned by every Stack operation. Err holds the underlying
// collaborator's error and is reachable with errors.Unwrap.
// errors.Is(err, ErrFile), ErrLock or ErrUTF8 tests the kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.sentinel()
	if s == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, s, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func fileErr(op string, err error) error {
	return &Error{Kind: KindFile, Op: op, Err: err}
}

func lockErr(op string, err error) error {
	return &Error{Kind: KindLock, Op: op, Err: err}
}

func utf8Err(op string, err error) error {
	return &Error{Kind: KindUTF8, Op: op, Err: err}
}
