package flare

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Hook is a logrus hook that captures every entry into a Flare instance.
//
//	logrus.AddHook(flare.NewHook(f))
//
// An entry's logrus.ErrorKey field becomes the event's exception, the
// configured logger field (default "logger") becomes the logger name, and
// the remaining fields travel as properties.
type Hook struct {
	f *Flare
}

// NewHook creates a logrus hook backed by f.
func NewHook(f *Flare) *Hook {
	return &Hook{f: f}
}

// Levels implements logrus.Hook. The hook fires on every level.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. It never returns an error; capture failures
// go to the diagnostic log instead of logrus's own error output.
func (h *Hook) Fire(e *logrus.Entry) error {
	lg := Log{
		Text:      e.Message,
		Level:     levelFromLogrus(e.Level),
		Timestamp: e.Time,
	}

	fields := make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		switch k {
		case logrus.ErrorKey:
			if err, ok := v.(error); ok {
				lg.Err = err
				continue
			}
		case h.f.loggerField:
			if name, ok := v.(string); ok {
				lg.Logger = name
				continue
			}
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		lg.Fields = fields
	}

	if e.HasCaller() {
		lg.CallSite = e.Caller.Function
	}
	if lg.Err != nil {
		lg.Stack = string(debug.Stack())
	}

	h.f.Notify(lg)
	return nil
}

func levelFromLogrus(l logrus.Level) Level {
	switch l {
	case logrus.TraceLevel:
		return LevelTrace
	case logrus.DebugLevel:
		return LevelDebug
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel:
		return LevelError
	case logrus.FatalLevel, logrus.PanicLevel:
		return LevelFatal
	default:
		return LevelInfo
	}
}
