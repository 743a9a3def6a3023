package spool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

const defaultBufSize = 64 * 1024 // 64KB

func init() {
	sender.Register("spool", func(s sender.Settings) (sender.Sender, error) {
		if s.SpoolPath == "" {
			return nil, fmt.Errorf("spool: path is required")
		}
		return New(s.SpoolPath)
	})
}

// Option configures a spool Sender.
type Option func(*Sender)

// WithMaxSize sets the file size (bytes) at which rotation triggers.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(s *Sender) { s.maxSize = bytes }
}

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(s *Sender) { s.bufSize = bytes }
}

// Sender appends events as NDJSON to a local file with buffered I/O and
// optional size-based rotation. Useful as a durable fallback next to the
// network sender or as a capture target during development.
type Sender struct {
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	maxSize int64 // 0 = no rotation
	written int64
	bufSize int
}

// New creates a spool sender that writes NDJSON to the given path.
func New(path string, opts ...Option) (*Sender, error) {
	s := &Sender{
		path:    path,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.openFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Submit JSON-encodes the event and appends it as a line to the file.
func (s *Sender) Submit(_ context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("spool: marshal: %w", err)
	}
	data = append(data, '\n')

	if s.maxSize > 0 && s.written+int64(len(data)) > s.maxSize {
		if err := s.rotate(); err != nil {
			return fmt.Errorf("spool: rotate: %w", err)
		}
	}

	n, err := s.w.Write(data)
	s.written += int64(n)
	if err != nil {
		return fmt.Errorf("spool: write: %w", err)
	}
	return nil
}

// OnError is a no-op; the spool reports all failures synchronously.
func (s *Sender) OnError(func(error)) {}

// Close flushes the buffer and closes the file.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("spool: flush: %w", err)
	}
	return s.f.Close()
}

// openFile opens (or creates) the spool file and wraps it in a bufio.Writer.
func (s *Sender) openFile() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("spool: open %s: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("spool: stat %s: %w", s.path, err)
	}
	s.f = f
	s.w = bufio.NewWriterSize(f, s.bufSize)
	s.written = info.Size()
	return nil
}

// rotate flushes, closes the current file, renames it to {path}.1
// (shifting existing rotated files), and opens a new file.
func (s *Sender) rotate() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if err := s.f.Close(); err != nil {
		return err
	}

	// Shift existing rotated files: .2 → .3, .1 → .2, current → .1
	for i := 9; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", s.path, i)
		to := fmt.Sprintf("%s.%d", s.path, i+1)
		os.Rename(from, to) // file may not exist
	}
	if err := os.Rename(s.path, s.path+".1"); err != nil {
		return err
	}

	s.written = 0
	return s.openFile()
}
