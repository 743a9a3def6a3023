package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/crimson-sun/flare/internal/model"
)

const maxLineBytes = 1024 * 1024 // 1MB

// line is the NDJSON input shape the shipper accepts, one object per line.
type line struct {
	Time     time.Time      `json:"time"`
	Level    string         `json:"level"`
	Msg      string         `json:"msg"`
	Template string         `json:"template"`
	Logger   string         `json:"logger"`
	Caller   string         `json:"caller"`
	Error    string         `json:"error"`
	Stack    string         `json:"stack"`
	Fields   map[string]any `json:"fields"`
}

// parseLine decodes one NDJSON line into a record. The template falls back
// to the rendered message so grouping still works for logs that only carry
// the final text.
func parseLine(data []byte) (model.Record, error) {
	var l line
	if err := json.Unmarshal(data, &l); err != nil {
		return model.Record{}, fmt.Errorf("source: parse line: %w", err)
	}
	if l.Msg == "" {
		return model.Record{}, fmt.Errorf("source: line has no msg")
	}

	rec := model.Record{
		Time:     l.Time,
		Level:    model.ParseLevel(l.Level),
		Message:  l.Template,
		Rendered: l.Msg,
		Stack:    l.Stack,
		Fields:   l.Fields,
		Logger:   l.Logger,
		CallSite: l.Caller,
	}
	if rec.Message == "" {
		rec.Message = l.Msg
	}
	if l.Error != "" {
		rec.Err = errors.New(l.Error)
	}
	return rec, nil
}

// records reads NDJSON lines from r and sends the parsed records until EOF
// or cancellation. Malformed lines are logged and skipped; a shipper should
// survive one bad line in a million, not stop on it. The channel is closed
// when the loop ends, and closeFn (if non-nil) runs after the last read.
func records(ctx context.Context, r io.Reader, closeFn func() error) <-chan model.Record {
	ch := make(chan model.Record, 64)
	go func() {
		defer close(ch)
		if closeFn != nil {
			defer closeFn()
		}
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			data := sc.Bytes()
			if len(data) == 0 {
				continue
			}
			rec, err := parseLine(data)
			if err != nil {
				slog.Warn("skipping malformed line", "error", err)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case ch <- rec:
			}
		}
		if err := sc.Err(); err != nil {
			slog.Warn("source read error", "error", err)
		}
	}()
	return ch
}
