package sender

import (
	"context"
	"time"

	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/model"
)

// Sender delivers translated events to their destination.
type Sender interface {
	// Submit delivers one event. The returned error covers failures the
	// sender detects synchronously; failures raised later, such as a
	// timer-driven flush, go to the OnError callback instead.
	Submit(ctx context.Context, ev *model.Event) error

	// OnError registers the callback for asynchronous failures. Passing
	// nil detaches the current callback.
	OnError(f func(error))

	// Close flushes buffered events and releases resources.
	Close() error
}

// Settings carries the configuration a sender constructor may need.
// Constructors read the fields relevant to them and ignore the rest.
type Settings struct {
	DSN       config.DSN
	Timeout   time.Duration
	SpoolPath string
}
