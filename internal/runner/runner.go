// Package runner drives one configured search through discovery,
// enrichment and notification.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobsweep/internal/enrich"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/paginate"
)

// Search is the runtime form of a configured search.
type Search struct {
	Name           string
	StartURLs      []string
	MaxPages       int
	Target         int
	CollectDetails bool
}

// Pipeline carries the enrichment tuning shared by all searches.
type Pipeline struct {
	Window    int
	BatchSize int
}

// SearchRunner owns the full pipeline for a single search:
// paginate every start URL → enrich the new stubs → sink → notify.
type SearchRunner struct {
	search    Search
	paginator *paginate.Controller
	fetcher   model.PageFetcher
	sink      model.BatchSink
	notifier  model.Notifier
	pipeline  Pipeline
	logger    *slog.Logger
	newRunID  func() string
}

// NewSearchRunner creates a runner wired with all its dependencies. fetcher
// is used for detail pages; the paginator carries its own.
func NewSearchRunner(
	search Search,
	paginator *paginate.Controller,
	fetcher model.PageFetcher,
	sink model.BatchSink,
	notifier model.Notifier,
	pipeline Pipeline,
	logger *slog.Logger,
) *SearchRunner {
	return &SearchRunner{
		search:    search,
		paginator: paginator,
		fetcher:   fetcher,
		sink:      sink,
		notifier:  notifier,
		pipeline:  pipeline,
		logger:    logger.With("search", search.Name),
		newRunID:  uuid.NewString,
	}
}

// Name returns the search name.
func (r *SearchRunner) Name() string { return r.search.Name }

// Discover paginates every start URL into one shared dedup index and returns
// the stubs in discovery order. The result cap spans all start URLs. On a
// listing failure the stubs found so far are returned with the error.
func (r *SearchRunner) Discover(ctx context.Context) ([]model.ListingStub, int, error) {
	index := paginate.NewDedupIndex()
	limits := paginate.Limits{MaxPages: r.search.MaxPages, Target: r.search.Target}

	pages := 0
	for _, startURL := range r.search.StartURLs {
		res, err := r.paginator.Paginate(ctx, startURL, limits, index)
		pages += res.Pages
		if err != nil {
			return index.Stubs(), pages, err
		}
		r.logger.Debug("start url done", "url", startURL, "pages", res.Pages, "new", len(res.Stubs))
	}
	return index.Stubs(), pages, nil
}

// Run executes one pass and reports it to the notifier. Stubs discovered
// before a listing failure are still enriched and stored; the listing error
// is then returned. A notifier failure is logged, not returned.
func (r *SearchRunner) Run(ctx context.Context) (model.RunSummary, error) {
	summary := model.RunSummary{
		RunID:     r.newRunID(),
		Search:    r.search.Name,
		StartURLs: r.search.StartURLs,
		StartedAt: time.Now(),
	}
	ctx = model.WithRunID(ctx, summary.RunID)
	logger := r.logger.With("run_id", summary.RunID)

	stubs, pages, discoverErr := r.Discover(ctx)
	summary.Pages = pages
	summary.Discovered = len(stubs)

	var runErr error
	if discoverErr != nil {
		runErr = fmt.Errorf("running %s: %w", r.search.Name, discoverErr)
	}

	if len(stubs) > 0 && ctx.Err() == nil {
		scheduler := enrich.NewScheduler(r.fetcher, r.sink, enrich.Options{
			Window:         r.pipeline.Window,
			BatchSize:      r.pipeline.BatchSize,
			Target:         r.search.Target,
			CollectDetails: r.search.CollectDetails,
		}, logger)

		stats, err := scheduler.Run(ctx, stubs)
		summary.Enriched = stats.Enriched
		summary.Fallback = stats.Fallback
		summary.Skipped = stats.Skipped
		summary.Saved = stats.Saved
		if err != nil && runErr == nil {
			runErr = fmt.Errorf("running %s: enriching: %w", r.search.Name, err)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	summary.Err = runErr

	if err := r.notifier.Notify(summary); err != nil {
		logger.Warn("notifying run summary failed", "error", err)
	}

	logger.Info("search finished",
		"pages", summary.Pages,
		"discovered", summary.Discovered,
		"saved", summary.Saved,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, runErr
}
