package core

// lines.go provides the line source for catalog ingestion.
//
// The source is read twice: once to count lines (the denominator for
// progress reporting) and once to stream them. Streaming keeps memory at
// O(line) regardless of catalog size. Each line is cleaned of common export
// artifacts before it reaches the mapper:
//
//   - a UTF-8 BOM (0xEF 0xBB 0xBF) at the start of the file is dropped
//   - invalid UTF-8 sequences are replaced with U+FFFD
//   - the line terminator (\n or \r\n) is stripped
//
// A line longer than MaxLineSize is consumed and discarded; Next reports it
// as an empty line with Overlong set so the caller can skip it and carry on.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxLineSize is the longest line the source returns (1 MiB), terminator
// excluded.
var MaxLineSize = 1024 * 1024

const bom = "\ufeff"

// LineSource yields the raw lines of a catalog in order, header included.
type LineSource struct {
	name     string
	reader   *bufio.Reader
	closer   io.Closer
	total    int
	read     int
	buf      []byte
	overlong bool
	done     bool
	err      error
}

// OpenLineSource opens the catalog file at path.
// The caller must Close the returned source.
func OpenLineSource(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	src, err := NewLineSource(filepath.Base(path), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewLineSource reads lines from r. r is consumed once to count lines and
// rewound before streaming.
func NewLineSource(name string, r io.ReadSeeker) (*LineSource, error) {
	total, err := countLines(r)
	if err != nil {
		return nil, fmt.Errorf("count lines in %s: %w", name, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", name, err)
	}

	return &LineSource{
		name:   name,
		reader: bufio.NewReaderSize(r, 64*1024),
		total:  total,
	}, nil
}

// Name returns the display name of the source.
func (s *LineSource) Name() string { return s.name }

// Total returns the number of lines in the source, header included.
func (s *LineSource) Total() int { return s.total }

// Read returns the number of lines consumed so far.
func (s *LineSource) Read() int { return s.read }

// Overlong reports whether the line last returned by Next exceeded
// MaxLineSize. Its content was discarded.
func (s *LineSource) Overlong() bool { return s.overlong }

// Next returns the next cleaned line. It returns false at end of input or
// on a read error; check Err afterwards. An overlong line is returned as
// "" with Overlong set.
func (s *LineSource) Next() (string, bool) {
	if s.done || s.err != nil {
		return "", false
	}
	s.buf = s.buf[:0]
	s.overlong = false

	got := false
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if len(chunk) > 0 {
			got = true
			if !s.overlong {
				s.buf = append(s.buf, chunk...)
				// Allow room for a \r\n terminator before giving up.
				if len(s.buf) > MaxLineSize+2 {
					s.overlong = true
					s.buf = s.buf[:0]
				}
			}
		}

		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			s.done = true
			if !got {
				return "", false
			}
			break
		}
		s.err = err
		return "", false
	}

	line := bytes.TrimSuffix(s.buf, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) > MaxLineSize {
		s.overlong = true
	}
	if s.overlong {
		line = nil
	}
	if s.read == 0 {
		line = bytes.TrimPrefix(line, []byte(bom))
	}
	s.read++
	return strings.ToValidUTF8(string(line), "\uFFFD"), true
}

// Err returns the first non-EOF read error.
func (s *LineSource) Err() error {
	return s.err
}

// Close releases the underlying file, if any.
func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// countLines counts newline-terminated lines plus a trailing unterminated one.
func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	count := 0
	var (
		last byte
		seen bool
	)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			seen = true
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if seen && last != '\n' {
		count++
	}
	return count, nil
}
