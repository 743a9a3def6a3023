package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

func init() {
	sender.Register("stdout", func(sender.Settings) (sender.Sender, error) {
		return New(false), nil
	})
}

// Sender writes JSON-encoded events to stdout, one per line.
type Sender struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// New creates a stdout sender with optional pretty-printed JSON.
func New(pretty bool) *Sender {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Sender{enc: enc}
}

func (s *Sender) Submit(_ context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(ev); err != nil {
		return fmt.Errorf("stdout sender: %w", err)
	}
	return nil
}

// OnError is a no-op; stdout reports all failures synchronously.
func (s *Sender) OnError(func(error)) {}

func (s *Sender) Close() error {
	return nil
}
