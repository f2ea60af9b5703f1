package linestack

import (
	"fmt"
	"os"

	"github.com/zerodha/logf"
)

const (
	defaultWindowSize = 1024
	defaultFileMode   = os.FileMode(0644)

	// Largest write buffer returned to the pool after a push.
	maxPooledBuffer = 4 << 10
)

// Options represents configuration options for managing a stack file.
type Options struct {
	debug       bool         // Enable debug logging.
	logger      *logf.Logger // Logger supplied by the caller. Overrides debug.
	windowSize  int          // Bytes read per backward step during pop.
	alwaysFSync bool         // Flush filesystem buffer after every push, pop and clear.
	fileMode    os.FileMode  // Permissions used when the file is created.
}

// Config is a function on the Options for a stack.
// These are used to configure particular options.
type Config func(*Options) error

func DefaultOptions() *Options {
	return &Options{
		debug:       false,
		windowSize:  defaultWindowSize,
		alwaysFSync: false,
		fileMode:    defaultFileMode,
	}
}

func WithDebug() Config {
	return func(o *Options) error {
		o.debug = true
		return nil
	}
}

// WithLogger makes the stack log through lo instead of building its own logger.
func WithLogger(lo logf.Logger) Config {
	return func(o *Options) error {
		o.logger = &lo
		return nil
	}
}

// WithWindowSize sets the chunk size used while scanning backward for the
// last record. Larger windows mean fewer reads and more memory per pop.
func WithWindowSize(size int) Config {
	return func(o *Options) error {
		if size <= 0 {
			return fmt.Errorf("invalid window size %d: must be positive", size)
		}
		o.windowSize = size
		return nil
	}
}

// WithAlwaysSync calls fsync(2) after every mutation, before the lock is released.
func WithAlwaysSync() Config {
	return func(o *Options) error {
		o.alwaysFSync = true
		return nil
	}
}

func WithFileMode(mode os.FileMode) Config {
	return func(o *Options) error {
		o.fileMode = mode
		return nil
	}
}
