// Package enrich fetches detail pages for discovered listings in bounded
// windows and streams the resulting records to a sink in batches.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobsweep/internal/detail"
	"github.com/amishk599/jobsweep/internal/model"
)

const (
	DefaultWindow    = 5
	DefaultBatchSize = 20
)

// Kind classifies what happened to a single stub.
type Kind int

const (
	// Skipped means no record was produced: no usable title, or the target
	// was already met.
	Skipped Kind = iota
	// Enriched means the detail page was fetched and merged.
	Enriched
	// Fallback means the record was built from listing data only: the
	// detail fetch failed, the page had no posting, or details are off.
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Enriched:
		return "enriched"
	case Fallback:
		return "fallback"
	default:
		return "skipped"
	}
}

// Outcome is the per-stub result of a window.
type Outcome struct {
	Kind   Kind
	Record model.JobRecord
	Err    error // detail fetch error behind a Fallback, if any
}

// Options tunes a Scheduler. Zero values pick the defaults; Target <= 0
// means no cap.
type Options struct {
	Window         int
	BatchSize      int
	Target         int
	CollectDetails bool
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// Stats counts outcomes of one Run.
type Stats struct {
	Enriched int
	Fallback int
	Skipped  int
	Saved    int
	Batches  int
}

// Scheduler turns listing stubs into records.
type Scheduler struct {
	fetcher model.PageFetcher
	sink    model.BatchSink
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduler creates a Scheduler writing to sink.
func NewScheduler(fetcher model.PageFetcher, sink model.BatchSink, opts Options, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		fetcher: fetcher,
		sink:    sink,
		opts:    opts.withDefaults(),
		logger:  logger,
		now:     time.Now,
	}
}

// Run processes stubs window by window, in order. Records reach the sink in
// stub order. A sink error stops the run and is returned as is; on context
// cancellation the buffered records are still flushed before ctx.Err() is
// returned.
func (s *Scheduler) Run(ctx context.Context, stubs []model.ListingStub) (Stats, error) {
	var (
		stats    Stats
		reserved atomic.Int64
		buf      []model.JobRecord
	)

	flush := func(ctx context.Context, n int) error {
		if n == 0 {
			return nil
		}
		// The sink owns the batch; later appends never reach its backing array.
		batch := buf[:n:n]
		if err := s.sink.Append(ctx, batch); err != nil {
			return fmt.Errorf("appending batch of %d: %w", n, err)
		}
		stats.Saved += n
		stats.Batches++
		buf = buf[n:]
		return nil
	}

	for start := 0; start < len(stubs); start += s.opts.Window {
		if err := ctx.Err(); err != nil {
			if ferr := flush(context.WithoutCancel(ctx), len(buf)); ferr != nil {
				return stats, ferr
			}
			return stats, err
		}

		window := stubs[start:min(start+s.opts.Window, len(stubs))]
		outcomes := make([]Outcome, len(window))

		var g errgroup.Group
		for i, stub := range window {
			g.Go(func() error {
				outcomes[i] = s.process(ctx, stub, &reserved)
				return nil
			})
		}
		_ = g.Wait()

		for _, o := range outcomes {
			switch o.Kind {
			case Enriched:
				stats.Enriched++
			case Fallback:
				stats.Fallback++
			default:
				stats.Skipped++
				continue
			}
			buf = append(buf, o.Record)
		}

		for len(buf) >= s.opts.BatchSize {
			if err := flush(ctx, s.opts.BatchSize); err != nil {
				return stats, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		if ferr := flush(context.WithoutCancel(ctx), len(buf)); ferr != nil {
			return stats, ferr
		}
		return stats, err
	}
	if err := flush(ctx, len(buf)); err != nil {
		return stats, err
	}

	s.logger.Info("enrichment finished",
		"stubs", len(stubs),
		"enriched", stats.Enriched,
		"fallback", stats.Fallback,
		"skipped", stats.Skipped,
		"saved", stats.Saved,
	)
	return stats, nil
}

// process handles one stub. A slot against the target is reserved before
// the detail fetch and released again when no record comes out of it.
func (s *Scheduler) process(ctx context.Context, stub model.ListingStub, reserved *atomic.Int64) Outcome {
	if !s.reserve(reserved) {
		return Outcome{Kind: Skipped}
	}

	if !s.opts.CollectDetails {
		return s.fromStub(stub, reserved, nil)
	}

	markup, err := s.fetcher.Fetch(ctx, stub.URL)
	if err != nil {
		s.logger.Warn("detail fetch failed, using listing data", "url", stub.URL, "error", err)
		return s.fromStub(stub, reserved, err)
	}

	rec, merged, ok := detail.BuildPage(stub, markup, s.now())
	if !ok {
		s.release(reserved)
		s.logger.Debug("skipping record without title", "url", stub.URL)
		return Outcome{Kind: Skipped}
	}
	if !merged {
		s.logger.Debug("no job posting on detail page, using listing data", "url", stub.URL)
		return Outcome{Kind: Fallback, Record: rec}
	}
	return Outcome{Kind: Enriched, Record: rec}
}

func (s *Scheduler) fromStub(stub model.ListingStub, reserved *atomic.Int64, cause error) Outcome {
	rec, ok := detail.FromStub(stub, s.now())
	if !ok {
		s.release(reserved)
		s.logger.Debug("skipping record without title", "url", stub.URL)
		return Outcome{Kind: Skipped, Err: cause}
	}
	return Outcome{Kind: Fallback, Record: rec, Err: cause}
}

func (s *Scheduler) reserve(reserved *atomic.Int64) bool {
	if s.opts.Target <= 0 {
		return true
	}
	if reserved.Add(1) > int64(s.opts.Target) {
		reserved.Add(-1)
		return false
	}
	return true
}

func (s *Scheduler) release(reserved *atomic.Int64) {
	if s.opts.Target > 0 {
		reserved.Add(-1)
	}
}
