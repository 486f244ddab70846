package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly"

	"github.com/amishk599/jobsweep/internal/model"
)

// CollyFetcher fetches pages through a colly collector. Each Fetch runs on
// a clone of the base collector, so callbacks never leak between requests
// and concurrent fetches are safe.
type CollyFetcher struct {
	base *colly.Collector
}

// NewCollyFetcher configures a collector with the given user agent and
// request timeout. Revisits are allowed: the pipeline dedups on its own.
func NewCollyFetcher(userAgent string, timeout time.Duration) *CollyFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(maxBodyBytes),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	return &CollyFetcher{base: c}
}

type collyResult struct {
	body string
	err  error
}

// Fetch visits url and returns the response body. Non-2xx responses become
// *model.HTTPError. Colly has no per-request context, so cancellation
// abandons the visit and returns ctx.Err(); the request itself ends at the
// collector's timeout.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := f.base.Clone()
	done := make(chan collyResult, 1)

	var (
		body    string
		httpErr *model.HTTPError
	)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			httpErr = &model.HTTPError{URL: url, StatusCode: r.StatusCode}
			if r.Headers != nil {
				httpErr.RetryAfter = parseRetryAfter(r.Headers.Get("Retry-After"))
			}
		}
	})

	go func() {
		err := c.Visit(url)
		switch {
		case httpErr != nil:
			done <- collyResult{err: httpErr}
		case err != nil:
			done <- collyResult{err: fmt.Errorf("fetching %s: %w", url, err)}
		default:
			done <- collyResult{body: body}
		}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetching %s: %w", url, ctx.Err())
	case res := <-done:
		return res.body, res.err
	}
}
