// Package retry runs an operation with a bounded linear backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// Do runs fn up to budget+1 times. After a failed attempt n it sleeps
// n × baseDelay before the next one, so delays grow monotonically. Errors
// that are not retryable (context cancellation, unusable payloads) abort
// immediately.
func Do(ctx context.Context, budget int, baseDelay time.Duration, logger *slog.Logger, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= budget+1; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt > budget {
			break
		}

		delay := time.Duration(attempt) * baseDelay
		logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"budget", budget,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: retry cancelled: %w", op, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", op, budget+1, lastErr)
}

// IsRetryable reports whether the error represents a transient failure worth
// another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation — never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A payload we cannot make sense of will not improve on a refetch.
	var payloadErr *model.MalformedPayloadError
	if errors.As(err, &payloadErr) {
		return false
	}

	// Any non-success status is treated as transient; the upstream is known
	// to return sporadic 502s that clear up on retry.
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return true
	}

	// Non-HTTP errors (network, DNS, etc.) — retryable.
	return true
}
