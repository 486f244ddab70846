package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// Runner is one schedulable search.
type Runner interface {
	Name() string
	Run(ctx context.Context) (model.RunSummary, error)
}

// Scheduler owns the main loop: ticks on an interval and runs each search sequentially.
type Scheduler struct {
	runners  []Runner
	interval time.Duration
	pause    time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs all searches at the given
// interval, pausing between searches.
func NewScheduler(runners []Runner, interval, pause time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runners:  runners,
		interval: interval,
		pause:    pause,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"searches", len(s.runners),
	)

	s.RunOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// RunOnce runs every search once, in order, and returns the summaries of
// those that ran. A failing search is logged and does not stop the cycle.
func (s *Scheduler) RunOnce(ctx context.Context) []model.RunSummary {
	var summaries []model.RunSummary
	for i, r := range s.runners {
		if ctx.Err() != nil {
			return summaries
		}

		summary, err := r.Run(ctx)
		if err != nil {
			s.logger.Error("search failed",
				"search", r.Name(),
				"error", err,
			)
		}
		summaries = append(summaries, summary)

		// Small pause between searches to be polite, except after the last one.
		if i < len(s.runners)-1 && s.pause > 0 {
			select {
			case <-ctx.Done():
				return summaries
			case <-time.After(s.pause):
			}
		}
	}
	return summaries
}
