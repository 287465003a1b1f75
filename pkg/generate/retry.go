package generate

import (
	"context"
	"errors"
	"net"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Retry policy for chat completion calls. Rate limits and server errors
// are transient; everything else fails fast.
const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// retry executes fn up to attempts times with exponential backoff.
// Only transient errors are retried; other errors are returned
// immediately. The delay doubles after each failed attempt.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// isTransient reports whether an API error is worth retrying: request
// timeouts, 429 rate limits, and 5xx responses.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}
