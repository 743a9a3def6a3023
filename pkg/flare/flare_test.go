package flare

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSender records submitted events and, like the real transports,
// rejects submits after Close.
type captureSender struct {
	mu        sync.Mutex
	events    []Event
	closes    int
	submitErr error
}

func (c *captureSender) Submit(_ context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closes > 0 {
		return errors.New("sender closed")
	}
	if c.submitErr != nil {
		return c.submitErr
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *captureSender) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *captureSender) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func (c *captureSender) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New(WithDSN("not a dsn"))
	require.Error(t, err)
}

func TestNew_SenderSkipsDSN(t *testing.T) {
	f, err := New(WithSender(&captureSender{}))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestNotify_DeliversEvent(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithService("checkout"))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{
		Text:     "user 7 logged in",
		Template: "user {id} logged in",
		Level:    LevelInfo,
		Logger:   "App.Auth",
		Fields:   map[string]any{"id": 7},
	})

	events := cs.snapshot()
	require.Len(t, events, 1)
	ev := events[0]

	assert.Equal(t, "user 7 logged in", ev.Message)
	assert.Equal(t, "info", ev.Level)
	assert.Equal(t, "go", ev.Platform)
	assert.Equal(t, "App.Auth", ev.Logger)
	assert.Equal(t, "checkout", ev.Tags["service_name"])
	assert.Equal(t, "7", ev.Extra["id"])
	assert.Len(t, ev.ID, 32)
	assert.False(t, ev.Timestamp.IsZero())

	require.Len(t, ev.Fingerprint, 3)
	require.NotNil(t, ev.Fingerprint[0])
	assert.Equal(t, "user {id} logged in", *ev.Fingerprint[0])
	assert.Nil(t, ev.Fingerprint[1])
	require.NotNil(t, ev.Fingerprint[2])
	assert.Equal(t, "App.Auth", *ev.Fingerprint[2])
}

func TestNotifyError_BuildsException(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithService("checkout"))
	require.NoError(t, err)
	defer f.Close()

	f.NotifyError(errors.New("card declined"), "charge failed")

	events := cs.snapshot()
	require.Len(t, events, 1)
	ev := events[0]

	assert.Equal(t, "charge failed", ev.Message)
	assert.Equal(t, "error", ev.Level)
	require.NotNil(t, ev.Exception)
	assert.Equal(t, "*errors.errorString", ev.Exception.Type)
	assert.Equal(t, "card declined", ev.Exception.Value)
	assert.Contains(t, ev.Extra, "RawStackTrace")
}

func TestNotify_ExceptionsOnly(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithExceptionsOnly())
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "heartbeat", Level: LevelInfo})
	assert.Empty(t, cs.snapshot())

	f.NotifyError(errors.New("boom"), "crash")
	assert.Len(t, cs.snapshot(), 1)
}

func TestNotify_PropertiesAsTags(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithService("checkout"), WithPropertiesAsTags())
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello", Fields: map[string]any{"user": "alice"}})

	events := cs.snapshot()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Extra)
	assert.Equal(t, map[string]string{"service_name": "checkout"}, events[0].Tags)
}

func TestNotify_RenderHook(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithRender(func(template string, fields map[string]any) (string, error) {
		return fmt.Sprintf("%s [user=%v]", template, fields["user"]), nil
	}))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Template: "login", Fields: map[string]any{"user": "alice"}})

	events := cs.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "login [user=alice]", events[0].Message)
}

func TestNotify_RenderErrorDropsLog(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithRender(func(string, map[string]any) (string, error) {
		return "", errors.New("template broken")
	}))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello"})
	assert.Empty(t, cs.snapshot())

	// Exception events do not go through the render hook.
	f.NotifyError(errors.New("boom"), "crash")
	assert.Len(t, cs.snapshot(), 1)
}

func TestNotify_EnvironmentAndRelease(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs), WithEnvironment("production"), WithRelease("1.2.3"))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello"})

	events := cs.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "production", events[0].Environment)
	assert.Equal(t, "1.2.3", events[0].Release)
}

func TestNotify_DefaultEnvironment(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello"})

	events := cs.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "develop", events[0].Environment)
	assert.Empty(t, events[0].Release)
}

func TestNotify_SubmitFailureIsSwallowed(t *testing.T) {
	cs := &captureSender{submitErr: errors.New("wire down")}
	f, err := New(WithSender(cs))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello"})
	assert.Empty(t, cs.snapshot())
}

func TestNotify_OnErrorUnusedWithCustomSender(t *testing.T) {
	cs := &captureSender{submitErr: errors.New("wire down")}
	var callbacks int
	f, err := New(WithSender(cs), WithOnError(func(error) { callbacks++ }))
	require.NoError(t, err)
	defer f.Close()

	f.Notify(Log{Text: "hello"})

	// The failure surfaces synchronously from Submit and is swallowed at
	// the isolation boundary; a caller-supplied Sender has no asynchronous
	// path that could invoke the callback.
	assert.Empty(t, cs.snapshot())
	assert.Zero(t, callbacks)
}

func TestClose_Idempotent(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs))
	require.NoError(t, err)

	f.Notify(Log{Text: "hello"})
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 1, cs.closeCount())
}

func TestNotify_AfterClose(t *testing.T) {
	cs := &captureSender{}
	f, err := New(WithSender(cs))
	require.NoError(t, err)

	f.Notify(Log{Text: "before"})
	require.NoError(t, f.Close())

	f.Notify(Log{Text: "after"})
	assert.Len(t, cs.snapshot(), 1)
}
