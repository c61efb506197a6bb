package retry

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"
)

const (
	MaxRetries    = 3
	RetryBaseWait = 1 * time.Second
)

// RetryableFunc represents a function that can be retried
type RetryableFunc func() error

// Config holds the tunables for a Do call.
type Config struct {
	maxRetries int
	baseWait   time.Duration
}

// Option configures a Do call.
type Option func(*Config)

// WithMaxRetries overrides the default number of attempts.
func WithMaxRetries(n int) Option {
	return func(c *Config) { c.maxRetries = n }
}

// WithBaseWait overrides the default base backoff duration.
func WithBaseWait(d time.Duration) Option {
	return func(c *Config) { c.baseWait = d }
}

// Do executes f, retrying on recoverable errors with exponential backoff and
// jitter between attempts. Stops early if f returns an APIError whose status
// code shouldn't be retried.
func Do(ctx context.Context, f RetryableFunc, opts ...Option) error {
	cfg := &Config{maxRetries: MaxRetries, baseWait: RetryBaseWait}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(cfg.baseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		err := f()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRecoverable(err) {
			return err
		}
	}
	return lastErr
}

// WithRetry runs f with the package defaults. Kept for callers that don't
// need to tune the retry count or base wait.
func WithRetry(ctx context.Context, f RetryableFunc) error {
	return Do(ctx, f)
}

// isRecoverable decides whether Do should try again after err. An APIError
// defers to ShouldRetry; anything else is assumed transient.
func isRecoverable(err error) bool {
	if apiErr, ok := err.(APIError); ok {
		return ShouldRetry(apiErr.StatusCode())
	}
	return true
}

// ShouldRetry determines if the given status code should trigger a retry
func ShouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode == http.StatusServiceUnavailable || // 503
		statusCode == http.StatusGatewayTimeout // 504
}

// APIError interface for errors that contain HTTP status codes
type APIError interface {
	error
	StatusCode() int
}

// RecoverableError marks an error as safe to retry even though it doesn't
// implement APIError.
type RecoverableError struct {
	err error
}

// NewRecoverableError wraps err so IsRecoverable reports true for it.
func NewRecoverableError(err error) error {
	return &RecoverableError{err: err}
}

func (e *RecoverableError) Error() string { return e.err.Error() }
func (e *RecoverableError) Unwrap() error { return e.err }

// IsRecoverable reports whether err was wrapped with NewRecoverableError.
func IsRecoverable(err error) bool {
	_, ok := err.(*RecoverableError)
	return ok
}
