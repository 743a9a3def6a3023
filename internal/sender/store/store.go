package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/crimson-sun/flare/internal/config"
	"github.com/crimson-sun/flare/internal/model"
	"github.com/crimson-sun/flare/internal/sender"
)

const (
	defaultBatchSize     = 20
	defaultFlushInterval = 2 * time.Second
	defaultTimeout       = 10 * time.Second
	maxRetries           = 3
)

func init() {
	sender.Register("store", func(s sender.Settings) (sender.Sender, error) {
		if s.DSN.IsZero() {
			return nil, fmt.Errorf("store: DSN is required")
		}
		return New(s.DSN, WithTimeout(s.Timeout)), nil
	})
}

// APIError represents a non-2xx response from the ingest service.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string // internal: Retry-After header value for 429s
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures a store Sender.
type Option func(*Store)

// WithBatchSize sets the number of events accumulated before a flush. Default: 20.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithFlushInterval sets the maximum time between flushes. Default: 2s.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero keeps the default 10s.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// Store POSTs batched events to the ingest endpoint as a JSON array.
// Events accumulate in an internal buffer and are flushed when batchSize is
// reached or flushInterval elapses. Retries on 429 and 5xx with backoff.
type Store struct {
	client        *http.Client
	url           string
	auth          string
	batchSize     int
	flushInterval time.Duration

	mu      sync.Mutex
	errFunc func(error)
	pending []*model.Event
	timer   *time.Timer
}

// New creates a store sender targeting the DSN's ingest endpoint.
func New(dsn config.DSN, opts ...Option) *Store {
	s := &Store{
		client:        &http.Client{Timeout: defaultTimeout},
		url:           dsn.StoreURL(),
		auth:          "Bearer " + dsn.Key(),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		errFunc:       defaultErrFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultErrFunc(err error) {
	slog.Warn("store flush error", "error", err)
}

// Submit appends an event to the batch. When batchSize is reached, the batch
// is flushed immediately and the flush outcome is returned. A timer is
// started on the first event so the batch flushes even if batchSize is
// never reached; timer flush failures go to the error callback.
func (s *Store) Submit(ctx context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, ev)

	if len(s.pending) >= s.batchSize {
		return s.flushLocked(ctx)
	}

	// Start timer on first event in a new batch.
	if len(s.pending) == 1 {
		s.timer = time.AfterFunc(s.flushInterval, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if err := s.flushLocked(context.Background()); err != nil {
				s.errFunc(err)
			}
		})
	}
	return nil
}

// OnError registers the callback invoked when a timer-triggered flush fails.
// A nil callback restores the default, which logs a warning via slog.
func (s *Store) OnError(f func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == nil {
		f = defaultErrFunc
	}
	s.errFunc = f
}

// Close flushes any remaining events and stops the timer.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.pending) > 0 {
		return s.flushLocked(context.Background())
	}
	return nil
}

// flushLocked sends the pending batch. Caller must hold s.mu.
func (s *Store) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	batch := s.pending
	s.pending = nil

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}

	return s.postWithRetry(ctx, body)
}

// postWithRetry sends the body via HTTP POST. Returns *APIError for non-2xx
// responses. Retries on 429 (honoring Retry-After) and 5xx with exponential
// backoff: 1s, 2s, 4s. Max 3 retries.
func (s *Store) postWithRetry(ctx context.Context, body []byte) error {
	var lastErr *APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt, lastErr)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", s.auth)
		req.Header.Set("User-Agent", "flare/"+config.Version)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("store: read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		bodyStr := string(respBody)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == 429 {
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}

		return apiErr
	}
	return lastErr
}

// backoffDelay returns the wait duration before a retry attempt.
func backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == 429 && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	// Exponential backoff: 1s, 2s, 4s
	return time.Duration(1<<(attempt-1)) * time.Second
}
