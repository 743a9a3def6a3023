package source

import (
	"context"
	"os"

	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/model"
)

func init() {
	Register("stdin", func() Source { return &Stdin{} })
}

// Stdin streams NDJSON records from standard input.
type Stdin struct{}

func (s *Stdin) Stream(ctx context.Context, _ config.SourceConfig) (<-chan model.Record, error) {
	return records(ctx, os.Stdin, nil), nil
}
