package forward

import (
	"context"

	"github.com/crimson-sun/flare/internal/client"
	"github.com/crimson-sun/flare/internal/diag"
	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/translate"
)

// ReportFunc receives every failure the forwarder suppresses.
type ReportFunc func(error)

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithReport sets the diagnostic hook for suppressed failures.
// Default: diag.SendFailure.
func WithReport(f ReportFunc) Option {
	return func(fw *Forwarder) {
		if f != nil {
			fw.report = f
		}
	}
}

// Forwarder joins translation and dispatch behind a single failure
// boundary. A broken delivery pipeline must never crash or block the
// application being observed, so every error on the translate-dispatch
// path is reported to the diagnostic side channel and swallowed here.
// Neither the translator nor the client manager suppresses errors on its
// own; this is the one place to audit.
type Forwarder struct {
	translator *translate.Translator
	manager    *client.Manager
	report     ReportFunc
}

// New creates a Forwarder over the given translator and client manager.
func New(tr *translate.Translator, mgr *client.Manager, opts ...Option) *Forwarder {
	fw := &Forwarder{
		translator: tr,
		manager:    mgr,
		report:     diag.SendFailure,
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw
}

// Handle translates and dispatches one record. Failures anywhere on that
// path, whether translating, constructing the sender, or submitting, are
// reported and swallowed. Records dropped by the exceptions-only filter
// produce neither a dispatch nor a report.
func (fw *Forwarder) Handle(ctx context.Context, rec model.Record) {
	ev, err := fw.translator.Translate(rec)
	if err != nil {
		fw.report(err)
		return
	}
	if ev == nil {
		return
	}
	if err := fw.manager.Dispatch(ctx, rec.Logger, ev); err != nil {
		fw.report(err)
	}
}

// Stream handles records from the channel until it closes or the context
// ends. Per-record failures are absorbed by Handle; only cancellation ends
// the loop with an error.
func (fw *Forwarder) Stream(ctx context.Context, ch <-chan model.Record) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-ch:
			if !ok {
				return nil
			}
			fw.Handle(ctx, rec)
		}
	}
}

// Close tears down the client manager.
func (fw *Forwarder) Close() error {
	return fw.manager.Shutdown()
}
