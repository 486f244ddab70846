package model

import (
	"context"
	"time"
)

// PageFetcher retrieves the raw markup of a page. Implementations own their
// retry, rate-limit and header policy; failures surface as errors.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// BatchSink durably persists a batch of records. Callers do not retry.
type BatchSink interface {
	Append(ctx context.Context, records []JobRecord) error
}

// Notifier delivers the summary of a finished run.
type Notifier interface {
	Notify(summary RunSummary) error
}

// RunSummary describes one pass of the pipeline over a single search.
type RunSummary struct {
	RunID      string
	Search     string
	StartURLs  []string
	Pages      int
	Discovered int
	Enriched   int
	Fallback   int
	Skipped    int
	Saved      int
	StartedAt  time.Time
	Duration   time.Duration
	Err        error
}
