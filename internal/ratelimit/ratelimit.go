package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// HostLimiter enforces a minimum delay between requests to the same host.
// Concurrent callers are spaced out: each Wait books the next free slot for
// its host before sleeping.
type HostLimiter struct {
	mu       sync.Mutex
	next     map[string]time.Time // key: host, value: earliest start of the next request
	minDelay time.Duration
}

// NewHostLimiter creates a limiter that enforces minDelay between
// consecutive requests to the same host.
func NewHostLimiter(minDelay time.Duration) *HostLimiter {
	return &HostLimiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until the caller's slot for host comes up.
// Returns an error if the context is cancelled while waiting.
func (r *HostLimiter) Wait(ctx context.Context, host string) error {
	if r.minDelay <= 0 {
		return nil
	}

	r.mu.Lock()
	now := time.Now()
	slot := r.next[host]
	if slot.Before(now) {
		slot = now
	}
	r.next[host] = slot.Add(r.minDelay)
	r.mu.Unlock()

	remaining := time.Until(slot)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", host, ctx.Err())
	case <-timer.C:
	}
	return nil
}

// RateLimitedFetcher is a decorator that waits on the limiter for the
// target host before delegating to the wrapped PageFetcher.
type RateLimitedFetcher struct {
	inner   model.PageFetcher
	limiter *HostLimiter
}

// NewRateLimitedFetcher wraps a PageFetcher with per-host rate limiting.
// All fetchers hitting the same site should share the same limiter instance.
func NewRateLimitedFetcher(inner model.PageFetcher, limiter *HostLimiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: limiter,
	}
}

// Fetch waits for the limiter to allow a request, then delegates.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := f.limiter.Wait(ctx, hostKey(rawURL)); err != nil {
		return "", err
	}
	return f.inner.Fetch(ctx, rawURL)
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Host)
}
