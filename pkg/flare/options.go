package flare

import "time"

type options struct {
	dsn              string
	service          string
	environment      string
	release          string
	timeout          time.Duration
	exceptionsOnly   bool
	propertiesAsTags bool
	render           func(template string, fields map[string]any) (string, error)
	sender           Sender
	onError          func(error)
	loggerField      string
}

// Option configures a Flare instance.
type Option func(*options)

// WithDSN sets the ingest endpoint, in the form
// scheme://key@host/projectID. Required unless a custom Sender is supplied.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithService sets the service name tagged on every event.
func WithService(name string) Option {
	return func(o *options) {
		o.service = name
	}
}

// WithEnvironment sets the deployment environment stamped on every event.
// Default: "develop".
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.environment = env
	}
}

// WithRelease sets the release identifier stamped on every event.
func WithRelease(rel string) Option {
	return func(o *options) {
		o.release = rel
	}
}

// WithTimeout sets the per-request timeout of the HTTP transport.
// Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithExceptionsOnly drops logs that carry no error instead of sending
// message events.
func WithExceptionsOnly() Option {
	return func(o *options) {
		o.exceptionsOnly = true
	}
}

// WithPropertiesAsTags withholds log fields from the extras map. The fields
// are not attached as individual tags; only the service tag is emitted.
func WithPropertiesAsTags() Option {
	return func(o *options) {
		o.propertiesAsTags = true
	}
}

// WithRender sets the hook used to produce the display message for logs
// without an error, typically by expanding the template against its fields.
// A render error aborts the capture of that log.
func WithRender(fn func(template string, fields map[string]any) (string, error)) Option {
	return func(o *options) {
		o.render = fn
	}
}

// WithSender replaces the built-in HTTP transport with a caller-supplied
// Sender. The DSN is not required or consulted when a Sender is set. A
// caller-supplied Sender fails synchronously from Submit only, so WithOnError
// does not apply to it.
func WithSender(s Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithOnError replaces the callback invoked for delivery failures that
// happen after capture returns, such as a failed background flush. Default:
// the diagnostic log line. It has no effect when a custom Sender is supplied
// via WithSender, which only fails synchronously.
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithLoggerField sets the logrus entry field the hook reads the logger
// name from. Default: "logger".
func WithLoggerField(name string) Option {
	return func(o *options) {
		if name != "" {
			o.loggerField = name
		}
	}
}

func defaultOptions() options {
	return options{
		loggerField: "logger",
	}
}
