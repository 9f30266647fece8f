package chunker

import (
	"bufio"
	"fmt"
	"io"
)

// maxLineSize bounds a single syslog line. Lines longer than this fail the
// scan instead of silently truncating.
const maxLineSize = 1 << 20

// Scanner partitions a line stream into fixed-size batches for distribution
// to workers. Batching only amortizes queue traffic; it carries no semantic
// meaning and must not affect aggregation results. The sequence is lazy,
// single-pass and non-restartable.
type Scanner struct {
	scanner *bufio.Scanner
	size    int
	done    bool
}

// NewScanner creates a batching scanner over r. size is the maximum number
// of lines per batch and must be positive.
func NewScanner(r io.Reader, size int) (*Scanner, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{scanner: s, size: size}, nil
}

// Next returns the next batch of up to size lines. The final batch may be
// short. The second return value is false once the input is exhausted or a
// read error occurred; check Err afterwards.
func (s *Scanner) Next() ([]string, bool) {
	if s.done {
		return nil, false
	}

	batch := make([]string, 0, s.size)
	for len(batch) < s.size {
		if !s.scanner.Scan() {
			s.done = true
			break
		}
		batch = append(batch, s.scanner.Text())
	}

	if len(batch) == 0 {
		return nil, false
	}
	return batch, true
}

// Err returns the first error encountered while reading, if any.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}
