package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// maxDelay caps both the computed backoff and a server supplied Retry-After.
const maxDelay = 2 * time.Minute

// RetryFetcher is a decorator that retries transient page fetch failures
// with exponential backoff and jitter.
type RetryFetcher struct {
	inner      model.PageFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a PageFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryFetcher(inner model.PageFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Fetch attempts to fetch url, retrying on transient errors.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.inner.Fetch(ctx, url)
	if err == nil {
		return body, nil
	}
	if !isRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)

		f.logger.Warn("retrying after transient error",
			"url", url,
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		body, err = f.inner.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After from the server takes precedence.
func (f *RetryFetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return min(httpErr.RetryAfter, maxDelay)
	}

	delay := f.baseDelay
	for i := 1; i < attempt && delay < maxDelay; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return min(delay, maxDelay)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 408 and 429 are worth another go; so is any 5xx.
		switch {
		case httpErr.StatusCode == 408, httpErr.StatusCode == 429:
			return true
		case httpErr.StatusCode >= 500:
			return true
		}
		return false
	}

	// Network, DNS, reset connections.
	return true
}
