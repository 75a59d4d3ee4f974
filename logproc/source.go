package logproc

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/kbukum/logpipe/errors"
)

// DefaultMaxLineSize is the longest line a LineSource accepts unless told otherwise.
const DefaultMaxLineSize = 1024 * 1024

const initialLineBuffer = 64 * 1024

// LineSource reads a file one line at a time. It implements
// pipeline.Iterator[RawLine] and is single pass.
type LineSource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	line    int
	closed  bool
}

// OpenLineSource opens path for reading. Lines longer than maxLineSize bytes
// fail the read; maxLineSize <= 0 selects DefaultMaxLineSize.
func OpenLineSource(path string, maxLineSize int) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.StageSource, "open", path, err)
	}
	if maxLineSize <= 0 {
		maxLineSize = DefaultMaxLineSize
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, min(initialLineBuffer, maxLineSize)), maxLineSize)
	return &LineSource{path: path, file: f, scanner: sc}, nil
}

// Path returns the file being read.
func (s *LineSource) Path() string { return s.path }

// Next returns the next trimmed line. A read failure, including a line over
// the size limit, ends the sequence with an IO_ERROR.
func (s *LineSource) Next(ctx context.Context) (RawLine, bool, error) {
	if err := ctx.Err(); err != nil {
		return RawLine{}, false, err
	}
	if s.closed {
		return RawLine{}, false, nil
	}
	if s.scanner.Scan() {
		s.line++
		return RawLine{No: s.line, Text: strings.TrimSpace(s.scanner.Text())}, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return RawLine{}, false, errors.IO(errors.StageSource, "read", s.path, err).
			WithDetail("line", s.line+1)
	}
	return RawLine{}, false, nil
}

// Close releases the file. It is safe to call more than once.
func (s *LineSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return errors.IO(errors.StageSource, "close", s.path, err)
	}
	return nil
}
