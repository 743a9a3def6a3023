package translate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/flare/internal/model"
)

// RawStackTraceKey is the extra entry carrying the unparsed stack text on
// every exception event. It is attached even when record fields are
// otherwise withheld from the extras map.
const RawStackTraceKey = "RawStackTrace"

// serviceTagKey is the tag every event carries to identify the emitting service.
const serviceTagKey = "service_name"

// severities maps every record level to its wire severity. The table is
// total over the known levels; a level without an entry means the level set
// grew without this table being updated, which is a programming error and
// panics rather than dropping the record.
var severities = map[model.Level]model.Severity{
	model.LevelTrace: model.SeverityDebug,
	model.LevelDebug: model.SeverityDebug,
	model.LevelInfo:  model.SeverityInfo,
	model.LevelWarn:  model.SeverityWarning,
	model.LevelError: model.SeverityError,
	model.LevelFatal: model.SeverityFatal,
}

// RenderFunc produces the display message for a record, typically by
// expanding its template against host framework state. Errors abort the
// translation of that record.
type RenderFunc func(model.Record) (string, error)

// Translator converts records into events. It is stateless after
// construction and safe for concurrent use.
type Translator struct {
	service          string
	exceptionsOnly   bool
	propertiesAsTags bool
	render           RenderFunc
}

// Option configures a Translator.
type Option func(*Translator)

// WithRender sets the message rendering hook used for records without an error.
func WithRender(fn RenderFunc) Option {
	return func(t *Translator) {
		t.render = fn
	}
}

// WithExceptionsOnly drops records that carry no error instead of
// producing message events. Default: false.
func WithExceptionsOnly(on bool) Option {
	return func(t *Translator) {
		t.exceptionsOnly = on
	}
}

// WithPropertiesAsTags withholds record fields from the extras map.
// The fields are not attached as individual tags; only the service tag is
// emitted. Default: false.
func WithPropertiesAsTags(on bool) Option {
	return func(t *Translator) {
		t.propertiesAsTags = on
	}
}

// New creates a Translator that tags every event with the given service name.
func New(service string, opts ...Option) *Translator {
	t := &Translator{service: service}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate converts one record into at most one event. A nil event with a
// nil error means the record was dropped by the exceptions-only filter.
// Records with an error always produce an exception event, filter or not.
func (t *Translator) Translate(rec model.Record) (*model.Event, error) {
	if rec.Err == nil && t.exceptionsOnly {
		return nil, nil
	}

	ev := &model.Event{
		ID:          newEventID(),
		Level:       mapSeverity(rec.Level),
		Timestamp:   eventTime(rec),
		Platform:    "go",
		Fingerprint: fingerprint(rec),
		Tags:        map[string]string{serviceTagKey: t.service},
	}

	if rec.Err != nil {
		ev.Message = scrub(formatted(rec))
		ev.Exception = &model.ExceptionInfo{
			Type:  fmt.Sprintf("%T", rec.Err),
			Value: scrub(rec.Err.Error()),
			Stack: rec.Stack,
		}
		ev.Extra = t.extras(rec)
		if ev.Extra == nil {
			ev.Extra = make(map[string]string, 1)
		}
		ev.Extra[RawStackTraceKey] = rec.Stack
		return ev, nil
	}

	msg, err := t.message(rec)
	if err != nil {
		return nil, fmt.Errorf("translate: render message: %w", err)
	}
	ev.Message = scrub(msg)
	ev.Extra = t.extras(rec)
	return ev, nil
}

// message resolves the display text for a record without an error,
// preferring the configured rendering hook.
func (t *Translator) message(rec model.Record) (string, error) {
	if t.render != nil {
		return t.render(rec)
	}
	return formatted(rec), nil
}

// formatted returns the pre-rendered message when the host supplied one.
func formatted(rec model.Record) string {
	if rec.Rendered != "" {
		return rec.Rendered
	}
	return rec.Message
}

// extras copies record fields into the extras map with values coerced to
// strings. Returns nil when fields are withheld or absent.
func (t *Translator) extras(rec model.Record) map[string]string {
	if t.propertiesAsTags || len(rec.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		m[k] = stringify(v)
	}
	return m
}

// fingerprint builds the grouping key: message template, call site, logger
// name, in that order. A missing call site stays null on the wire so the
// ingest service groups these events the same way its default rules would.
func fingerprint(rec model.Record) []*string {
	msg := rec.Message
	logger := rec.Logger
	fp := []*string{&msg, nil, &logger}
	if rec.CallSite != "" {
		cs := rec.CallSite
		fp[1] = &cs
	}
	return fp
}

func mapSeverity(l model.Level) model.Severity {
	s, ok := severities[l]
	if !ok {
		panic(fmt.Sprintf("translate: no severity mapping for level %d", int(l)))
	}
	return s
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// newEventID returns a fresh 32-character hex identifier.
func newEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func eventTime(rec model.Record) time.Time {
	if rec.Time.IsZero() {
		return time.Now().UTC()
	}
	return rec.Time.UTC()
}
