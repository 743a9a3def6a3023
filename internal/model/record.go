package model

import "time"

// Record is the intermediate type produced by inbound adapters (the logrus
// hook, NDJSON sources) and consumed by the translator. Adapters fill it once
// and never mutate it afterwards.
type Record struct {
	Time     time.Time
	Level    Level
	Message  string         // raw message template, used for grouping
	Rendered string         // fully formatted message
	Err      error          // non-nil turns the record into an exception event
	Stack    string         // human-readable stack description for Err
	Fields   map[string]any // caller-supplied properties
	Logger   string         // name of the originating logger
	CallSite string         // originating function, empty when unknown
}
