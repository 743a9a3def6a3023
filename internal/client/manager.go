package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/flare/internal/diag"
	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultEnvironment = "develop"
)

// Factory constructs the sender on first use. It receives the effective
// submit timeout, after defaulting, so the transport can bound its requests.
type Factory func(timeout time.Duration) (sender.Sender, error)

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the submit timeout handed to the factory.
// Zero or negative keeps the default 10s.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithEnvironment sets the environment tag stamped onto every event.
// Empty keeps the default "develop".
func WithEnvironment(env string) Option {
	return func(m *Manager) {
		if env != "" {
			m.environment = env
		}
	}
}

// WithRelease sets the release tag stamped onto every event. Best effort;
// when empty the events simply carry no release.
func WithRelease(rel string) Option {
	return func(m *Manager) {
		m.release = rel
	}
}

// WithOnError replaces the callback registered with the sender for failures
// it raises outside Submit. Default: diag.SendFailure, so async transport
// failures land on the diagnostic side channel. Nil keeps the default;
// Shutdown detaches the callback.
func WithOnError(f func(error)) Option {
	return func(m *Manager) {
		if f != nil {
			m.onError = f
		}
	}
}

// Manager owns the sender lifecycle: one lazily-constructed instance shared
// by all dispatches, stamped configuration defaults, and teardown that
// detaches the error callback before closing.
type Manager struct {
	factory     Factory
	timeout     time.Duration
	environment string
	release     string
	onError     func(error)

	mu   sync.Mutex
	snd  sender.Sender
	down bool

	activeLogger atomic.Value // string
}

// NewManager creates a Manager around the given factory. The factory is not
// invoked until the first dispatch.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory:     factory,
		timeout:     defaultTimeout,
		environment: defaultEnvironment,
		onError:     diag.SendFailure,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// client returns the shared sender, constructing it on first call. At most
// one sender is ever constructed; a construction failure is returned to the
// caller and the next call tries again.
func (m *Manager) client() (sender.Sender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snd == nil {
		snd, err := m.factory(m.timeout)
		if err != nil {
			return nil, fmt.Errorf("client: construct sender: %w", err)
		}
		m.snd = snd
		snd.OnError(m.onError)
	}
	return m.snd, nil
}

// Dispatch stamps shared metadata onto the event and submits it. Logger
// attribution goes through a field shared by every dispatch on this client;
// two concurrent dispatches may interleave between the write and the
// submit, attributing an event to the other's logger. The submit can be a
// long network call, so the dispatch path stays lock-free rather than
// serializing for perfect attribution.
func (m *Manager) Dispatch(ctx context.Context, loggerName string, ev *model.Event) error {
	snd, err := m.client()
	if err != nil {
		return err
	}

	m.activeLogger.Store(loggerName)
	ev.Logger, _ = m.activeLogger.Load().(string)
	if ev.Environment == "" {
		ev.Environment = m.environment
	}
	if ev.Release == "" {
		ev.Release = m.release
	}

	if err := snd.Submit(ctx, ev); err != nil {
		return fmt.Errorf("client: submit: %w", err)
	}
	return nil
}

// Shutdown detaches the error callback and closes the sender, if one was
// ever constructed. Safe to call multiple times and concurrently with
// in-flight dispatches; those may still complete against the closed sender
// and their failures surface synchronously instead of via the callback.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down || m.snd == nil {
		m.down = true
		return nil
	}
	m.down = true
	m.snd.OnError(nil)
	return m.snd.Close()
}
