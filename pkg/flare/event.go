package flare

import (
	"time"

	"github.com/crimson-sun/flare/internal/model"
)

// Event is the stable public shape of a translated event, as handed to a
// caller-supplied Sender. Its field tags are the wire format, so marshaling
// it produces the same JSON the built-in transport sends.
type Event struct {
	ID          string            `json:"event_id"`
	Message     string            `json:"message"`
	Level       string            `json:"level"`
	Timestamp   time.Time         `json:"timestamp"`
	Logger      string            `json:"logger,omitempty"`
	Platform    string            `json:"platform"`
	Fingerprint []*string         `json:"fingerprint"`
	Tags        map[string]string `json:"tags,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
	Exception   *Exception        `json:"exception,omitempty"`
	Environment string            `json:"environment,omitempty"`
	Release     string            `json:"release,omitempty"`
}

// Exception describes the error attached to an exception event.
type Exception struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Stack string `json:"stack,omitempty"`
}

// eventFromModel converts the internal event to the public Event type.
func eventFromModel(ev *model.Event) Event {
	e := Event{
		ID:          ev.ID,
		Message:     ev.Message,
		Level:       string(ev.Level),
		Timestamp:   ev.Timestamp,
		Logger:      ev.Logger,
		Platform:    ev.Platform,
		Fingerprint: ev.Fingerprint,
		Tags:        ev.Tags,
		Extra:       ev.Extra,
		Environment: ev.Environment,
		Release:     ev.Release,
	}
	if ev.Exception != nil {
		e.Exception = &Exception{
			Type:  ev.Exception.Type,
			Value: ev.Exception.Value,
			Stack: ev.Exception.Stack,
		}
	}
	return e
}
