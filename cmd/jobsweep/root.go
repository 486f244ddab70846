package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/fetcher"
	"github.com/amishk599/jobsweep/internal/listing"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/notifier"
	"github.com/amishk599/jobsweep/internal/paginate"
	"github.com/amishk599/jobsweep/internal/ratelimit"
	"github.com/amishk599/jobsweep/internal/retry"
	"github.com/amishk599/jobsweep/internal/runner"
	"github.com/amishk599/jobsweep/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsweep",
	Short: "Sweep job boards into structured records",
	Long:  "jobsweep walks paginated job search results, enriches each listing from its detail page and stores the records.",
	// Bare `jobsweep` performs a single pass, same as `jobsweep run`.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSWEEP_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig(path string) (*config.Config, error) {
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildFetcher assembles the transport chain: base transport, then the
// per-host rate limiter, then retries on top so every attempt is paced.
func buildFetcher(cfg *config.Config, logger *slog.Logger) model.PageFetcher {
	t := cfg.Transport

	var base model.PageFetcher
	switch t.Type {
	case "colly":
		base = fetcher.NewCollyFetcher(t.UserAgent, t.Timeout)
	default:
		base = fetcher.NewHTTPFetcher(&http.Client{Timeout: t.Timeout}, t.UserAgent)
	}
	logger.Debug("transport configured",
		"type", t.Type,
		"timeout", t.Timeout.String(),
		"min_delay", t.MinDelay.String(),
		"max_retries", t.MaxRetries,
	)

	limited := ratelimit.NewRateLimitedFetcher(base, ratelimit.NewHostLimiter(t.MinDelay))
	return retry.NewRetryFetcher(limited, t.MaxRetries, t.RetryBaseDelay, logger)
}

// sink is a BatchSink that owns a connection.
type sink interface {
	model.BatchSink
	io.Closer
}

func openSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sink, error) {
	s := cfg.Sink
	switch s.Type {
	case "mongo":
		logger.Info("using mongo sink", "database", s.Database, "collection", s.Collection)
		return store.NewMongoSink(ctx, s.URI, s.Database, s.Collection)
	case "mysql":
		logger.Info("using mysql sink")
		return store.NewMySQLSink(s.DSN)
	case "log":
		return store.NewLogSink(logger), nil
	default:
		logger.Info("using sqlite sink", "path", s.Path)
		return store.NewSQLiteSink(s.Path)
	}
}

func newPaginator(cfg *config.Config, f model.PageFetcher, logger *slog.Logger) (*paginate.Controller, error) {
	miner, err := listing.NewMiner(cfg.Site.BaseURL, cfg.Site.Selectors)
	if err != nil {
		return nil, fmt.Errorf("building listing miner: %w", err)
	}
	return paginate.NewController(f, miner, cfg.Site.PageParam, logger), nil
}

func newSearchRunner(cfg *config.Config, sc config.SearchConfig, f model.PageFetcher, bs model.BatchSink, n model.Notifier, logger *slog.Logger) (*runner.SearchRunner, error) {
	startURLs, err := sc.StartURLs(cfg.Site)
	if err != nil {
		return nil, err
	}
	paginator, err := newPaginator(cfg, f, logger)
	if err != nil {
		return nil, err
	}
	search := runner.Search{
		Name:           sc.Name,
		StartURLs:      startURLs,
		MaxPages:       sc.MaxPages,
		Target:         sc.TargetResults,
		CollectDetails: sc.CollectDetails,
	}
	pipeline := runner.Pipeline{
		Window:    cfg.Pipeline.Window,
		BatchSize: cfg.Pipeline.BatchSize,
	}
	return runner.NewSearchRunner(search, paginator, f, bs, n, pipeline, logger), nil
}

func buildRunners(cfg *config.Config, f model.PageFetcher, bs model.BatchSink, n model.Notifier, logger *slog.Logger) []*runner.SearchRunner {
	var runners []*runner.SearchRunner
	for _, sc := range cfg.EnabledSearches() {
		r, err := newSearchRunner(cfg, sc, f, bs, n, logger)
		if err != nil {
			logger.Warn("invalid search, skipping", "search", sc.Name, "error", err)
			continue
		}
		runners = append(runners, r)
		logger.Info("registered search",
			"search", sc.Name,
			"target", sc.TargetResults,
			"max_pages", sc.MaxPages,
			"details", sc.CollectDetails,
		)
	}
	return runners
}
