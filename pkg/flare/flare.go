package flare

import (
	"context"
	"fmt"
	"time"

	"github.com/crimson-sun/flare/internal/client"
	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/forward"
	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
	"github.com/crimson-sun/flare/internal/sender/store"
	"github.com/crimson-sun/flare/internal/translate"
)

// Flare captures log events and forwards them to an error-tracking store.
// Safe for concurrent use.
type Flare struct {
	fwd         *forward.Forwarder
	loggerField string
}

// Sender delivers translated events. Supplying one via WithSender replaces
// the built-in HTTP transport, mainly for tests and dry runs.
type Sender interface {
	Submit(ctx context.Context, ev Event) error
	Close() error
}

// New creates a Flare instance. The DSN is validated here, but no
// connection is made until the first event is captured.
func New(opts ...Option) (*Flare, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var factory client.Factory
	if o.sender != nil {
		ad := &senderAdapter{inner: o.sender}
		factory = func(time.Duration) (sender.Sender, error) { return ad, nil }
	} else {
		dsn, err := config.ParseDSN(o.dsn)
		if err != nil {
			return nil, fmt.Errorf("flare: %w", err)
		}
		factory = func(timeout time.Duration) (sender.Sender, error) {
			return store.New(dsn, store.WithTimeout(timeout)), nil
		}
	}

	topts := []translate.Option{
		translate.WithExceptionsOnly(o.exceptionsOnly),
		translate.WithPropertiesAsTags(o.propertiesAsTags),
	}
	if o.render != nil {
		fn := o.render
		topts = append(topts, translate.WithRender(func(rec model.Record) (string, error) {
			return fn(rec.Message, rec.Fields)
		}))
	}
	tr := translate.New(o.service, topts...)

	var mopts []client.Option
	if o.timeout > 0 {
		mopts = append(mopts, client.WithTimeout(o.timeout))
	}
	if o.environment != "" {
		mopts = append(mopts, client.WithEnvironment(o.environment))
	}
	if o.release != "" {
		mopts = append(mopts, client.WithRelease(o.release))
	}
	if o.onError != nil {
		mopts = append(mopts, client.WithOnError(o.onError))
	}
	mgr := client.NewManager(factory, mopts...)

	return &Flare{
		fwd:         forward.New(tr, mgr),
		loggerField: o.loggerField,
	}, nil
}

// Notify captures one log. Delivery failures are reported through the
// diagnostic log and the error callback, never returned to the caller.
func (f *Flare) Notify(lg Log) {
	f.fwd.Handle(context.Background(), recordFromLog(lg))
}

// NotifyError captures err as an exception event with the given message.
func (f *Flare) NotifyError(err error, text string) {
	f.Notify(Log{Level: LevelError, Text: text, Err: err})
}

// Close flushes buffered events and tears down the transport. Logs captured
// after Close are dropped through the diagnostic channel. Close is
// idempotent.
func (f *Flare) Close() error {
	return f.fwd.Close()
}

// recordFromLog converts the public Log to the internal record type. The
// template falls back to the rendered text so grouping still works for logs
// that only carry the final message.
func recordFromLog(lg Log) model.Record {
	rec := model.Record{
		Time:     lg.Timestamp,
		Level:    model.Level(lg.Level),
		Message:  lg.Template,
		Rendered: lg.Text,
		Err:      lg.Err,
		Stack:    lg.Stack,
		Fields:   lg.Fields,
		Logger:   lg.Logger,
		CallSite: lg.CallSite,
	}
	if rec.Message == "" {
		rec.Message = lg.Text
	}
	return rec
}

// senderAdapter bridges a caller-supplied Sender to the internal transport
// interface. A caller-supplied Sender has no asynchronous failure path, so
// there is nothing to attach the error callback to.
type senderAdapter struct {
	inner Sender
}

func (a *senderAdapter) Submit(ctx context.Context, ev *model.Event) error {
	return a.inner.Submit(ctx, eventFromModel(ev))
}

func (a *senderAdapter) OnError(func(error)) {}

func (a *senderAdapter) Close() error {
	return a.inner.Close()
}
