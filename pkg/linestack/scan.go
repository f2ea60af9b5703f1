package linestack

import (
	"bytes"
	"io"
)

const newline = '\n'

// lastRecord scans the first size bytes of r backward, window bytes at a
// time, and returns the last non-empty record along with the offset at which
// it starts. Truncating to start removes the record, its terminating newline
// and any empty records after it. A nil record means the region held nothing
// but newlines; start is 0 in that case.
//
// A record without a terminating newline at the very end of the region is
// treated as the last record.
func lastRecord(r io.ReaderAt, size int64, window int) ([]byte, int64, error) {
	var (
		// Chunks of the record in the order they were read, newest first.
		chunks [][]byte
		found  bool
		end    = size
		w      = int64(window)
	)

	for end > 0 {
		off := end - w
		if off < 0 {
			off = 0
		}

		buf := make([]byte, end-off)
		n, err := r.ReadAt(buf, off)
		if err != nil && err != io.EOF {
			return nil, 0, err
		}
		if n < len(buf) {
			// Fewer bytes than the size we started from: the file was
			// changed by a writer that doesn't honour the lock.
			return nil, 0, io.ErrUnexpectedEOF
		}
		chunk := buf

		i := len(chunk)
		if !found {
			// Skip empty records until the first record byte.
			for i > 0 && chunk[i-1] == newline {
				i--
			}
			if i == 0 {
				end = off
				continue
			}
			found = true
		}

		if j := bytes.LastIndexByte(chunk[:i], newline); j >= 0 {
			chunks = append(chunks, chunk[j+1:i])
			return joinReversed(chunks), off + int64(j) + 1, nil
		}

		chunks = append(chunks, chunk[:i])
		end = off
	}

	if !found {
		return nil, 0, nil
	}
	// The record runs up to the start of the file.
	return joinReversed(chunks), 0, nil
}

// joinReversed concatenates chunks collected newest first into forward order.
func joinReversed(chunks [][]byte) []byte {
	if len(chunks) == 1 {
		return chunks[0]
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	out := make([]byte, 0, total)
	for i := len(chunks) - 1; i >= 0; i-- {
		out = append(out, chunks[i]...)
	}
	return out
}
