package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Sender)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Sender) {
		if n > 0 {
			a.bufSize = n
		}
	}
}

// WithDropOnFull makes Submit return immediately (dropping the event) when
// the buffer is full, instead of blocking. Use when losing events is
// preferable to stalling the host's logging path.
func WithDropOnFull() Option {
	return func(a *Sender) { a.dropOnFull = true }
}

// Sender decouples event production from delivery via a buffered channel.
// Submit writes into the channel; a background goroutine drains it to the
// wrapped sender. Delivery errors are passed to the error callback rather
// than returned, because the submitting call has already moved on.
type Sender struct {
	inner      sender.Sender
	ch         chan *model.Event
	done       chan struct{}
	bufSize    int
	dropOnFull bool

	mu      sync.RWMutex
	closed  bool
	errFunc func(error)

	closeOnce sync.Once
}

// New wraps a sender in an async channel-based submitter.
// The background drain goroutine starts immediately.
func New(inner sender.Sender, opts ...Option) *Sender {
	a := &Sender{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: defaultErrFunc,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan *model.Event, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

func defaultErrFunc(err error) {
	slog.Warn("async submit error", "error", err)
}

// Submit sends the event into the channel. By default, blocks if the channel
// is full (backpressure). With WithDropOnFull, returns nil immediately and
// the event is lost. After Close, returns an error instead of delivering.
func (a *Sender) Submit(_ context.Context, ev *model.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return fmt.Errorf("async: sender closed")
	}
	if a.dropOnFull {
		select {
		case a.ch <- ev:
		default:
			slog.Warn("async sender buffer full, dropping event", "event_id", ev.ID)
		}
		return nil
	}
	a.ch <- ev
	return nil
}

// OnError registers the callback for delivery failures and forwards the
// registration to the wrapped sender so its asynchronous failures reach the
// same callback. A nil callback restores the defaults.
func (a *Sender) OnError(f func(error)) {
	a.mu.Lock()
	if f == nil {
		a.errFunc = defaultErrFunc
	} else {
		a.errFunc = f
	}
	a.mu.Unlock()
	a.inner.OnError(f)
}

// Close stops accepting events, waits for the drain goroutine to finish
// (with a timeout), then closes the inner sender.
func (a *Sender) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()

		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async sender drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

// drain reads events from the channel and submits them to the inner sender.
func (a *Sender) drain() {
	defer close(a.done)
	for ev := range a.ch {
		if err := a.inner.Submit(context.Background(), ev); err != nil {
			a.report(err)
		}
	}
}

func (a *Sender) report(err error) {
	a.mu.RLock()
	f := a.errFunc
	a.mu.RUnlock()
	f(err)
}
