package flare

import "time"

// Level is the severity of a captured log, ordered from least to most
// severe. The zero value is LevelTrace.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Log is one captured log event. Text is the only required field; an Err
// turns the log into an exception event regardless of level.
type Log struct {
	Text      string         // rendered message text
	Template  string         // message template before formatting (optional, used for grouping)
	Level     Level          // severity
	Timestamp time.Time      // when the log was produced (zero = time.Now())
	Err       error          // error to attach as an exception (optional)
	Stack     string         // human-readable stack description for Err (optional)
	Logger    string         // name of the originating logger (optional)
	CallSite  string         // originating function (optional)
	Fields    map[string]any // structured properties (optional)
}
