package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

// Sender fans out events to multiple sender.Sender implementations.
// Each Submit delivers the event to every wrapped sender sequentially.
// If one sender fails, the remaining senders still receive the event.
type Sender struct {
	senders []sender.Sender
}

// New creates a Sender that fans out to the given senders.
func New(senders ...sender.Sender) *Sender {
	return &Sender{senders: senders}
}

// Submit delivers the event to every wrapped sender. Errors are collected
// but do not prevent delivery to subsequent senders.
func (m *Sender) Submit(ctx context.Context, ev *model.Event) error {
	var errs []error
	for _, s := range m.senders {
		if err := s.Submit(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnError forwards the callback registration to every wrapped sender.
func (m *Sender) OnError(f func(error)) {
	for _, s := range m.senders {
		s.OnError(f)
	}
}

// Close calls Close on every wrapped sender, collecting errors.
func (m *Sender) Close() error {
	var errs []error
	for _, s := range m.senders {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
