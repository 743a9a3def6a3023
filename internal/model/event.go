package model

import "time"

// Event is a translated error-tracking event, built fresh for every record
// and never reused. Senders marshal it as-is, so the field tags are the
// wire format.
type Event struct {
	ID        string    `json:"event_id"`
	Message   string    `json:"message"`
	Level     Severity  `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Logger    string    `json:"logger,omitempty"`
	Platform  string    `json:"platform"`

	// Fingerprint is the remote service's grouping key: exactly three
	// entries (message template, call site, logger name, in that order).
	// An absent component is a nil entry and is transmitted as JSON null
	// rather than substituted, matching the service's own grouping rules.
	Fingerprint []*string `json:"fingerprint"`

	Tags  map[string]string `json:"tags,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`

	Exception *ExceptionInfo `json:"exception,omitempty"` // nil for message events

	Environment string `json:"environment,omitempty"`
	Release     string `json:"release,omitempty"`
}

// ExceptionInfo describes the error carried by an exception event.
type ExceptionInfo struct {
	Type  string `json:"type"`            // Go type of the error
	Value string `json:"value"`           // err.Error()
	Stack string `json:"stack,omitempty"` // raw stack text, also mirrored in Extra
}
