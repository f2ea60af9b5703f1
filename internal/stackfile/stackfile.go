package stackfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// File wraps the single read-write descriptor backing a stack.
// The file position is never assumed between calls: appends seek to the end
// explicitly and reads are positioned.
type File struct {
	fd   *os.File
	path string
}

// Open opens the file at path for reading and writing, creating it with the
// given permissions if it doesn't exist. Existing content is preserved.
func Open(path string, perm os.FileMode) (*File, error) {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, fmt.Errorf("error opening stack file: %w", err)
	}

	return &File{
		fd:   fd,
		path: path,
	}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.path
}

// Fd returns the OS descriptor of the file. Locks are bound to it.
func (f *File) Fd() uintptr {
	return f.fd.Fd()
}

// Size returns the size of the file in bytes.
func (f *File) Size() (int64, error) {
	stat, err := f.fd.Stat()
	if err != nil {
		return -1, fmt.Errorf("error fetching file stats: %w", err)
	}

	return stat.Size(), nil
}

// Append seeks to the end of the file and writes data in a single call.
// It returns the offset at which data was written.
func (f *File) Append(data []byte) (int64, error) {
	offset, err := f.fd.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, fmt.Errorf("error seeking to end of file: %w", err)
	}

	n, err := f.fd.Write(data)
	if err != nil {
		return -1, fmt.Errorf("error writing data to file: %w", err)
	}
	if n != len(data) {
		return -1, fmt.Errorf("error writing data to file: %w", io.ErrShortWrite)
	}

	return offset, nil
}

// ReadAt reads up to len(buf) bytes starting at off. Reaching the end of the
// file is not an error, the number of bytes actually read is returned.
func (f *File) ReadAt(buf []byte, off int64) (int, error) {
	n, err := f.fd.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("error reading data from file: %w", err)
	}

	return n, nil
}

// Truncate changes the size of the file. It does not move the file position.
func (f *File) Truncate(size int64) error {
	if err := f.fd.Truncate(size); err != nil {
		return fmt.Errorf("error truncating file to %d bytes: %w", size, err)
	}

	return nil
}

// Sync flushes the in-memory buffers to the disk.
func (f *File) Sync() error {
	if err := f.fd.Sync(); err != nil {
		return fmt.Errorf("error syncing file to disk: %w", err)
	}

	return nil
}

// Close closes the underlying descriptor. File content is left untouched.
func (f *File) Close() error {
	if err := f.fd.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}

	return nil
}
