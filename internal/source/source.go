package source

import (
	"context"
	"fmt"

	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/model"
)

// Source defines the interface all record sources must implement.
type Source interface {
	// Stream opens the source and sends records as they are read. The
	// channel closes when the source is exhausted or the context ends.
	Stream(ctx context.Context, cfg config.SourceConfig) (<-chan model.Record, error)
}

// Constructor is a function that creates a new Source instance.
type Constructor func() Source

var registry = map[string]Constructor{}

// Register adds a source constructor under the given kind name.
func Register(kind string, ctor Constructor) {
	registry[kind] = ctor
}

// Get returns the source constructor for the given kind name.
func Get(kind string) (Constructor, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}
	return ctor, nil
}

// Kinds returns the names of all registered source kinds.
func Kinds() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
