package source

import (
	"context"
	"fmt"
	"os"

	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/model"
)

func init() {
	Register("file", func() Source { return &File{} })
}

// File streams NDJSON records from the file named by cfg.Path. The file is
// closed when the stream ends.
type File struct{}

func (f *File) Stream(ctx context.Context, cfg config.SourceConfig) (<-chan model.Record, error) {
	fh, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", cfg.Path, err)
	}
	return records(ctx, fh, fh.Close), nil
}
